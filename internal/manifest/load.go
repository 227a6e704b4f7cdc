// Package manifest reads and updates fae.config.json.
//
// The manifest is strict JSON. Rewrites (install <pkg>) keep unknown keys
// but sort them.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bianoble/fae/internal/atomicfile"
	"github.com/bianoble/fae/internal/compose"
	"github.com/bianoble/fae/internal/fault"
)

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fault.Wrap(fault.MalformedManifest, filepath.Base(path), err)
	}
	return m, nil
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if errs := Validate(&m); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return &m, nil
}

func read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, fault.New(fault.MissingManifest, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return data, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks field values that JSON decoding alone cannot.
// Required-on-start fields are checked by RequireStart instead; empty
// dependency versions and script lines are reported by the operation that
// uses them.
func Validate(m *Manifest) []string {
	var errs []string

	if m.InstallTimeout != "" {
		if _, err := time.ParseDuration(m.InstallTimeout); err != nil {
			errs = append(errs, fmt.Sprintf("installTimeout: invalid duration '%s' — use a value like 90s or 5m", m.InstallTimeout))
		}
	}

	return errs
}

// RequireStart checks the keys start cannot run without.
func (m *Manifest) RequireStart() error {
	if strings.TrimSpace(m.Main) == "" {
		return fault.New(fault.MissingRequiredField, KeyMain)
	}
	if strings.TrimSpace(m.Language) == "" {
		return fault.New(fault.MissingRequiredField, KeyLanguage)
	}
	return nil
}

// OutputPolicy returns the redirect policy the manifest asks for.
func (m *Manifest) OutputPolicy() compose.OutputPolicy {
	return compose.OutputPolicy{
		Destination: m.SendOutputToFile,
		Append:      m.AppendOutputForConsecutiveRuns != nil && *m.AppendOutputForConsecutiveRuns,
	}
}

// Wait reports whether start should wait for the program to exit.
func (m *Manifest) Wait() bool {
	return m.WaitForExit != nil && *m.WaitForExit
}

// Timeout returns the parsed install timeout and whether one was set.
func (m *Manifest) Timeout() (time.Duration, bool) {
	if m.InstallTimeout == "" {
		return 0, false
	}
	d, err := time.ParseDuration(m.InstallTimeout)
	if err != nil {
		return 0, false
	}
	return d, true
}

// SetDependency records pkg at version in the manifest at path, keeping every
// other key. It returns the updated manifest.
func SetDependency(path, pkg, version string) (*Manifest, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fault.Wrap(fault.MalformedManifest, filepath.Base(path), err)
	}
	if raw == nil {
		raw = make(map[string]json.RawMessage)
	}

	deps := make(map[string]string)
	if existing, ok := raw[KeyExternalDependencies]; ok && string(existing) != "null" {
		if err := json.Unmarshal(existing, &deps); err != nil {
			return nil, fault.Wrap(fault.MalformedManifest, filepath.Base(path), fmt.Errorf("%s: %w", KeyExternalDependencies, err))
		}
	}
	deps[pkg] = version

	encoded, err := encode(deps)
	if err != nil {
		return nil, err
	}
	raw[KeyExternalDependencies] = encoded

	out, err := encode(raw)
	if err != nil {
		return nil, err
	}

	m, err := Parse(out)
	if err != nil {
		return nil, fault.Wrap(fault.MalformedManifest, filepath.Base(path), err)
	}

	if err := atomicfile.Write(path, out, 0644); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	return m, nil
}
