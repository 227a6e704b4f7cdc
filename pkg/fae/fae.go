// Package fae provides the public Go library API for fae.
//
// fae runs a project described by a fae.config.json manifest: it resolves the
// entry point's language and shell, installs external dependencies once per
// project, and launches the program. This package exposes the same
// operations as the fae command for embedding in other Go programs.
//
// # Basic Usage
//
//	client, err := fae.New(fae.Options{
//	    ManifestPath: "/path/to/project/fae.config.json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Install dependencies if needed, then launch and wait
//	wait := true
//	result, err := client.Start(ctx, fae.StartOptions{Wait: &wait})
//
//	// Add a dependency and install it
//	_, err = client.Install(ctx, "requests", "2.31.0")
package fae

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bianoble/fae/internal/deps"
	"github.com/bianoble/fae/internal/engine"
	"github.com/bianoble/fae/internal/lock"
	"github.com/bianoble/fae/internal/manifest"
	"github.com/bianoble/fae/internal/registry"
	"github.com/bianoble/fae/internal/settings"
	"github.com/bianoble/fae/internal/transcript"
)

// Starter launches a project's entry point.
type Starter interface {
	Start(ctx context.Context, opts StartOptions) (*StartResult, error)
}

// Installer installs external dependencies.
type Installer interface {
	Install(ctx context.Context, pkg, version string) (*InstallResult, error)
	InstallDeps(ctx context.Context, opts InstallDepsOptions) (*InstallDepsResult, error)
}

// ScriptRunner runs named manifest scripts.
type ScriptRunner interface {
	RunScript(ctx context.Context, name string, args []string) (*RunResult, error)
}

// Options configures a fae client.
type Options struct {
	// ManifestPath is the path to the manifest. Default: "fae.config.json".
	// The project root is the directory containing it.
	ManifestPath string

	// LockfilePath is the path to the lock file. Default: "fae.lock.json"
	// next to the manifest.
	LockfilePath string

	// TranscriptDir stores install output. If empty, uses the default
	// (~/.cache/fae/transcripts).
	TranscriptDir string

	// SystemSettingsPath overrides the system settings path.
	// Empty means use the OS default.
	SystemSettingsPath string

	// UserSettingsPath overrides the user settings path.
	// Empty means use the OS default.
	UserSettingsPath string

	// NoInherit skips system and user settings.
	NoInherit bool

	// InstallTimeout, when non-zero, bounds each install command and wins
	// over the manifest's installTimeout.
	InstallTimeout time.Duration

	// Dispatcher spawns processes. Default: the os/exec dispatcher.
	Dispatcher Dispatcher

	// Logger receives diagnostics. Default: discarded.
	Logger *slog.Logger
}

// Client is the main entry point for the fae library.
// It implements Starter, Installer, and ScriptRunner.
type Client struct {
	engine   *engine.Engine
	settings *settings.HierarchicalResult
}

// New creates a new fae Client. Settings are loaded once, here.
func New(opts Options) (*Client, error) {
	if opts.ManifestPath == "" {
		opts.ManifestPath = manifest.FileName
	}
	manifestPath, err := filepath.Abs(opts.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path: %w", err)
	}
	lockPath := opts.LockfilePath
	if lockPath == "" {
		lockPath = filepath.Join(filepath.Dir(manifestPath), lock.FileName)
	}

	hr, err := settings.LoadHierarchical(settings.HierarchicalOptions{
		ProjectPath: filepath.Join(filepath.Dir(manifestPath), settings.ProjectFileName),
		SystemPath:  opts.SystemSettingsPath,
		UserPath:    opts.UserSettingsPath,
		NoInherit:   opts.NoInherit,
	})
	if err != nil {
		return nil, err
	}

	transcriptDir := opts.TranscriptDir
	if transcriptDir == "" {
		transcriptDir = transcript.DefaultDir()
	}
	ts, err := transcript.New(transcriptDir)
	if err != nil {
		return nil, fmt.Errorf("initializing transcript store: %w", err)
	}

	timeout, force := deps.DefaultTimeout, false
	if d, ok := hr.Settings.Timeout(); ok {
		timeout = d
	}
	if opts.InstallTimeout > 0 {
		timeout, force = opts.InstallTimeout, true
	}

	return &Client{
		settings: hr,
		engine: &engine.Engine{
			ManifestPath:        manifestPath,
			LockPath:            lockPath,
			Languages:           registry.NewLanguageMap(hr.Settings.Languages),
			Shells:              registry.NewShellMap(hr.Settings.Shells, hr.Settings.DefaultShell),
			Dispatcher:          opts.Dispatcher,
			Transcripts:         ts,
			InstallTimeout:      timeout,
			ForceInstallTimeout: force,
			Logger:              opts.Logger,
		},
	}, nil
}

// ProjectRoot returns the directory containing the manifest.
func (c *Client) ProjectRoot() string {
	return c.engine.Root()
}

// Start installs dependencies if the lock file is pending, then launches
// the entry point.
func (c *Client) Start(ctx context.Context, opts StartOptions) (*StartResult, error) {
	return c.engine.Start(ctx, opts)
}

// Install adds pkg at version to the manifest and installs it.
// An empty version means the latest.
func (c *Client) Install(ctx context.Context, pkg, version string) (*InstallResult, error) {
	return c.engine.Install(ctx, pkg, version)
}

// InstallDeps installs every dependency regardless of the lock state.
func (c *Client) InstallDeps(ctx context.Context, opts InstallDepsOptions) (*InstallDepsResult, error) {
	return c.engine.InstallDeps(ctx, opts)
}

// RunScript runs a named manifest script and waits for it.
func (c *Client) RunScript(ctx context.Context, name string, args []string) (*RunResult, error) {
	return c.engine.RunScript(ctx, name, args)
}

// Status reports what start would do without changing anything.
func (c *Client) Status() (*StatusResult, error) {
	return c.engine.Status()
}

// Transcript returns stored install output by reference.
func (c *Client) Transcript(ref string) ([]byte, bool, error) {
	return c.engine.Transcripts.Get(ref)
}
