package engine

import (
	"context"
	"fmt"

	"github.com/bianoble/fae/internal/deps"
	"github.com/bianoble/fae/internal/lock"
	"github.com/bianoble/fae/internal/manifest"
	"github.com/bianoble/fae/internal/registry"
)

// Bootstrap installs the manifest's dependencies if the lock file says they
// have never been installed. A successful sweep marks the lock installed; a
// failed one leaves it pending and returns the error, so the caller must not
// go on to spawn anything.
//
// The read-modify-write of the lock file holds the project's guard lock.
func (e *Engine) Bootstrap(ctx context.Context, m *manifest.Manifest, sh registry.Shell) (*BootstrapResult, error) {
	log := e.logger()

	guard, err := lock.Acquire(e.lockPath())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := guard.Release(); err != nil {
			log.Warn("releasing lock guard", "error", err)
		}
	}()

	store := &lock.Store{Path: e.lockPath()}
	_, state, err := store.Load()
	if err != nil {
		return nil, err
	}

	result := &BootstrapResult{Before: state}
	if !state.NeedsInstall() {
		log.Debug("dependencies already installed", "lock", store.Path)
		return result, nil
	}

	log.Debug("installing dependencies", "lock", store.Path, "state", state.String(), "count", len(m.ExternalDependencies))
	result.Ran = true
	report, err := e.installer(m, sh, false).InstallAll(ctx, deps.FromMap(m.ExternalDependencies), deps.TemplatesOf(m))
	result.Report = report
	if err != nil {
		return result, err
	}

	if err := store.MarkInstalled(); err != nil {
		return result, fmt.Errorf("recording installed dependencies: %w", err)
	}
	return result, nil
}
