// Package transcript keeps the captured output of dependency install commands.
//
// Transcripts are content-addressed by their BLAKE3 hash and stored
// zstd-compressed, so repeated identical installs cost one object.
package transcript

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

const objectExt = ".zst"

// Store is a directory of compressed transcripts.
type Store struct {
	dir string
}

// New creates a Store at the given directory.
// The directory is created if it does not exist.
func New(dir string) (*Store, error) {
	objDir := filepath.Join(dir, "objects")
	if err := os.MkdirAll(objDir, 0755); err != nil {
		return nil, fmt.Errorf("creating transcript directory %s: %w", objDir, err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the default transcript directory.
// Uses XDG_CACHE_HOME if set, otherwise ~/.cache/fae/transcripts.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "fae", "transcripts")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return filepath.Join(os.TempDir(), "fae-transcripts")
		}
		return filepath.Join("/tmp", "fae-transcripts")
	}
	return filepath.Join(home, ".cache", "fae", "transcripts")
}

// Put stores content and returns its reference. No-op if already stored.
func (s *Store) Put(content []byte) (string, error) {
	ref := ComputeRef(content)
	path := s.objectPath(ref)

	if _, err := os.Stat(path); err == nil {
		return ref, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating transcript subdirectory: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("creating compressor: %w", err)
	}
	compressed := enc.EncodeAll(content, nil)
	_ = enc.Close()

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating transcript temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(compressed); err != nil {
		return "", fmt.Errorf("writing transcript temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing transcript temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("renaming transcript temp file: %w", err)
	}

	success = true
	return ref, nil
}

// Get returns the transcript for ref and true if found and verified.
// A corrupt entry is removed and reported as a miss, as is anything that
// is not a well-formed reference.
func (s *Store) Get(ref string) ([]byte, bool, error) {
	if !validRef(ref) {
		return nil, false, nil
	}
	path := s.objectPath(ref)
	compressed, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading transcript %s: %w", ref, err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating decompressor: %w", err)
	}
	defer dec.Close()

	content, err := dec.DecodeAll(compressed, nil)
	if err != nil || ComputeRef(content) != ref {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return content, true, nil
}

// Size returns the total size of the store in bytes.
func (s *Store) Size() (int64, error) {
	var total int64
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// Path returns the store directory.
func (s *Store) Path() string {
	return s.dir
}

func (s *Store) objectPath(ref string) string {
	if len(ref) < 2 {
		return filepath.Join(s.dir, "objects", ref+objectExt)
	}
	return filepath.Join(s.dir, "objects", ref[:2], ref+objectExt)
}

// ComputeRef returns the hex BLAKE3-256 hash of content.
func ComputeRef(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func validRef(ref string) bool {
	if len(ref) != 64 {
		return false
	}
	_, err := hex.DecodeString(ref)
	return err == nil
}
