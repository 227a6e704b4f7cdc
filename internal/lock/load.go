// Package lock persists the one-time dependency bootstrap state.
//
// The lock file moves through three states. A missing file is Uninitialized
// and is materialized as PendingInstall (firstRun = true). A fully successful
// dependency sweep moves it to Installed (firstRun = false). A failed or
// interrupted sweep leaves it pending so the next run retries.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bianoble/fae/internal/atomicfile"
	"github.com/bianoble/fae/internal/fault"
)

// Load reads a lock file. A missing file is returned as an error wrapping
// fs.ErrNotExist; invalid JSON is a fault.MalformedLock.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lock file %s: %w", path, err)
	}

	var lf Lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fault.Wrap(fault.MalformedLock, path, err)
	}
	return &lf, nil
}

// Save writes a lock file atomically using a temp file and rename.
func Save(path string, lf *Lockfile) error {
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}
	data = append(data, '\n')

	if err := atomicfile.Write(path, data, 0644); err != nil {
		return fmt.Errorf("saving lock file %s: %w", path, err)
	}
	return nil
}

// Store is the lock file of one project.
type Store struct {
	Path string
}

// Load returns the current record and state. When the file is absent a
// default pending record is written and Uninitialized is returned.
func (s *Store) Load() (*Lockfile, State, error) {
	lf, err := Load(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		lf = Default()
		if err := Save(s.Path, lf); err != nil {
			return nil, Uninitialized, err
		}
		return lf, Uninitialized, nil
	}
	if err != nil {
		return nil, Uninitialized, err
	}
	return lf, lf.State(), nil
}

// MarkInstalled durably records a successful dependency sweep.
func (s *Store) MarkInstalled() error {
	return Save(s.Path, &Lockfile{FirstRun: false})
}

// Reset returns the project to PendingInstall.
func (s *Store) Reset() error {
	return Save(s.Path, Default())
}
