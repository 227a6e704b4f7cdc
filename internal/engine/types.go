// Package engine carries out fae's commands against one project directory.
package engine

import (
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bianoble/fae/internal/compose"
	"github.com/bianoble/fae/internal/deps"
	"github.com/bianoble/fae/internal/dispatch"
	"github.com/bianoble/fae/internal/lock"
	"github.com/bianoble/fae/internal/manifest"
	"github.com/bianoble/fae/internal/registry"
	"github.com/bianoble/fae/internal/transcript"
)

// Engine holds everything needed to act on a project. Nothing read from
// disk is cached between calls.
type Engine struct {
	ManifestPath string
	LockPath     string // defaults to lock.FileName next to the manifest

	Languages  *registry.LanguageMap
	Shells     *registry.ShellMap
	Dispatcher dispatch.Dispatcher // defaults to *dispatch.Exec

	// ShellOverride replaces the manifest's shell tag when set.
	ShellOverride string

	// Transcripts stores captured install output. Optional.
	Transcripts *transcript.Store

	// InstallTimeout bounds each install command when the manifest sets no
	// installTimeout. ForceInstallTimeout makes it win over the manifest.
	InstallTimeout      time.Duration
	ForceInstallTimeout bool

	Logger *slog.Logger
	Now    func() time.Time
}

// Root returns the project root, the directory holding the manifest.
func (e *Engine) Root() string {
	return filepath.Dir(e.ManifestPath)
}

func (e *Engine) lockPath() string {
	if e.LockPath != "" {
		return e.LockPath
	}
	return filepath.Join(e.Root(), lock.FileName)
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (e *Engine) dispatcher() dispatch.Dispatcher {
	if e.Dispatcher != nil {
		return e.Dispatcher
	}
	return &dispatch.Exec{Logger: e.logger()}
}

func (e *Engine) languages() *registry.LanguageMap {
	if e.Languages != nil {
		return e.Languages
	}
	return registry.NewLanguageMap(nil)
}

func (e *Engine) shells() *registry.ShellMap {
	if e.Shells != nil {
		return e.Shells
	}
	return registry.NewShellMap(nil, "")
}

// shell resolves the shell for m, honoring ShellOverride.
func (e *Engine) shell(m *manifest.Manifest) (registry.Shell, error) {
	return e.shells().Resolve(e.shellTag(m))
}

func (e *Engine) shellTag(m *manifest.Manifest) string {
	if e.ShellOverride != "" {
		return e.ShellOverride
	}
	return m.Shell
}

func (e *Engine) installTimeout(m *manifest.Manifest) time.Duration {
	if e.ForceInstallTimeout {
		return e.InstallTimeout
	}
	if d, ok := m.Timeout(); ok {
		return d
	}
	return e.InstallTimeout
}

func (e *Engine) installer(m *manifest.Manifest, sh registry.Shell, keepGoing bool) *deps.Installer {
	return &deps.Installer{
		Shell:       sh,
		Dispatcher:  e.dispatcher(),
		Transcripts: e.Transcripts,
		Dir:         e.Root(),
		Timeout:     e.installTimeout(m),
		KeepGoing:   keepGoing,
		Logger:      e.logger(),
	}
}

// BootstrapResult describes the dependency bootstrap performed before start.
type BootstrapResult struct {
	Before lock.State
	Ran    bool // the install sweep ran
	Report *deps.Report
}

// StartResult holds the outcome of start.
type StartResult struct {
	Bootstrap  *BootstrapResult
	Command    compose.Command
	Invocation registry.Invocation
	Pid        int
	Waited     bool
	ExitCode   int // -1 unless Waited
}

// InstallResult holds the outcome of install.
type InstallResult struct {
	Dependency deps.Dependency
	Step       deps.Step
}

// InstallDepsResult holds the outcome of install-deps.
type InstallDepsResult struct {
	Report *deps.Report
	State  lock.State // lock state after the sweep
}

// RunResult holds the outcome of run.
type RunResult struct {
	Script     string
	Line       string
	Invocation registry.Invocation
	ExitCode   int
}
