package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bianoble/fae/internal/deps"
	"github.com/bianoble/fae/internal/engine"
	"github.com/bianoble/fae/internal/lock"
	"github.com/bianoble/fae/internal/registry"
	"github.com/bianoble/fae/internal/settings"
	"github.com/bianoble/fae/internal/transcript"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// manifestAbs returns the absolute manifest path.
func manifestAbs() (string, error) {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return "", fmt.Errorf("resolving manifest path: %w", err)
	}
	return abs, nil
}

// projectRoot returns the directory containing the manifest.
func projectRoot() (string, error) {
	abs, err := manifestAbs()
	if err != nil {
		return "", err
	}
	return filepath.Dir(abs), nil
}

// resolvedLockPath returns --lockfile or the lock file next to the manifest.
func resolvedLockPath(root string) string {
	if lockfilePath != "" {
		return lockfilePath
	}
	return filepath.Join(root, lock.FileName)
}

// loadSettings loads and merges the settings layers.
func loadSettings(root string) (*settings.HierarchicalResult, error) {
	project := settingsPath
	if project == "" {
		project = filepath.Join(root, settings.ProjectFileName)
	}
	hr, err := settings.LoadHierarchical(settings.HierarchicalOptions{
		ProjectPath: project,
		NoInherit:   noInherit || settings.EnvNoInherit(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	return hr, nil
}

// newTranscripts creates or opens the transcript store.
func newTranscripts() (*transcript.Store, error) {
	return transcript.New(transcript.DefaultDir())
}

// newLogger returns the diagnostics logger: text on a terminal, JSON when
// stderr is redirected. Debug level with --verbose, warnings otherwise.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// newEngine builds an engine for the current project.
func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	abs, err := manifestAbs()
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(abs)
	hr, err := loadSettings(root)
	if err != nil {
		return nil, err
	}
	ts, err := newTranscripts()
	if err != nil {
		return nil, err
	}

	logger := newLogger().With("command", cmd.Name())
	timeout, force := resolveInstallTimeout(cmd, hr.Settings)

	return &engine.Engine{
		ManifestPath:        abs,
		LockPath:            resolvedLockPath(root),
		Languages:           registry.NewLanguageMap(hr.Settings.Languages),
		Shells:              registry.NewShellMap(hr.Settings.Shells, hr.Settings.DefaultShell),
		Transcripts:         ts,
		InstallTimeout:      timeout,
		ForceInstallTimeout: force,
		Logger:              logger,
	}, nil
}

// resolveInstallTimeout applies --install-timeout over settings over the
// default. The manifest's installTimeout sits between the flag and settings
// and is applied by the engine unless the flag forces the value.
func resolveInstallTimeout(cmd *cobra.Command, s *settings.Settings) (time.Duration, bool) {
	if cmd.Flags().Changed("install-timeout") {
		return installTimeout, true
	}
	if d, ok := s.Timeout(); ok {
		return d, false
	}
	return deps.DefaultTimeout, false
}

// shellTag is a --shell flag value. Tags are normalized when parsed; whether
// the tag is known is checked once settings are loaded.
type shellTag string

var _ pflag.Value = (*shellTag)(nil)

func (s *shellTag) String() string { return string(*s) }

func (s *shellTag) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return errors.New("shell tag must not be empty")
	}
	*s = shellTag(v)
	return nil
}

func (s *shellTag) Type() string { return "tag" }

// printSteps reports dependency installs.
func printSteps(steps []deps.Step) {
	for _, s := range steps {
		if s.OK() {
			info("  installed  %s", s.Dependency)
			detail("  %s (%s)", s.Command, s.Duration.Round(time.Millisecond))
			continue
		}
		info("  failed     %s", s.Dependency)
		if s.Transcript != "" {
			detail("  transcript %s", s.Transcript)
		}
	}
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

func humanSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
