package settings

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a settings file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	if errs := Validate(&s); len(errs) > 0 {
		return nil, &ValidationError{Path: path, Errors: errs}
	}

	return &s, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Path   string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("settings %s validation failed:\n  - %s", e.Path, strings.Join(e.Errors, "\n  - "))
}

// Validate checks Settings for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(s *Settings) []string {
	var errs []string

	if s.InstallTimeout != "" {
		if _, err := time.ParseDuration(s.InstallTimeout); err != nil {
			errs = append(errs, fmt.Sprintf("install_timeout: invalid duration '%s' — use a value like 90s or 5m", s.InstallTimeout))
		}
	}

	names := make(map[string]bool)
	for i, l := range s.Languages {
		prefix := fmt.Sprintf("language[%d]", i)
		if l.Name != "" {
			prefix = fmt.Sprintf("language '%s'", l.Name)
		}

		if l.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		} else if names[l.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate language name '%s'", prefix, l.Name))
		} else {
			names[l.Name] = true
		}

		if len(l.Command) == 0 || strings.TrimSpace(l.Command[0]) == "" {
			errs = append(errs, fmt.Sprintf("%s: 'command' must name a program — e.g. command: [deno, run, \"{file}\"]", prefix))
		}
	}

	names = make(map[string]bool)
	for i, sh := range s.Shells {
		prefix := fmt.Sprintf("shell[%d]", i)
		if sh.Name != "" {
			prefix = fmt.Sprintf("shell '%s'", sh.Name)
		}

		if sh.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		} else if names[sh.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate shell name '%s'", prefix, sh.Name))
		} else {
			names[sh.Name] = true
		}

		if sh.Executable == "" {
			errs = append(errs, fmt.Sprintf("%s: 'executable' is required", prefix))
		}

		switch sh.Quoting {
		case "", "posix", "cmd", "powershell":
			// valid
		default:
			errs = append(errs, fmt.Sprintf("%s: invalid quoting '%s' — must be one of: posix, cmd, powershell", prefix, sh.Quoting))
		}
	}

	return errs
}

// Timeout returns the parsed install timeout and whether one was set.
func (s *Settings) Timeout() (time.Duration, bool) {
	if s == nil || s.InstallTimeout == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s.InstallTimeout)
	if err != nil {
		return 0, false
	}
	return d, true
}
