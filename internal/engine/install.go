package engine

import (
	"context"
	"strings"

	"github.com/bianoble/fae/internal/deps"
	"github.com/bianoble/fae/internal/fault"
	"github.com/bianoble/fae/internal/lock"
	"github.com/bianoble/fae/internal/manifest"
)

// Install records pkg at version in the manifest's externalDependencies and
// runs its install command. An empty version means manifest.LatestVersion.
// The manifest entry is kept even when the install command fails.
func (e *Engine) Install(ctx context.Context, pkg, version string) (*InstallResult, error) {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return nil, fault.Newf(fault.InvalidCommand, "install", "install requires a package name")
	}
	if version == "" {
		version = manifest.LatestVersion
	}

	m, err := manifest.SetDependency(e.ManifestPath, pkg, version)
	if err != nil {
		return nil, err
	}
	e.logger().Debug("recorded dependency", "package", pkg, "version", version, "manifest", e.ManifestPath)

	sh, err := e.shell(m)
	if err != nil {
		return nil, err
	}

	d := deps.Dependency{Package: pkg, Version: version}
	step, err := e.installer(m, sh, false).Install(ctx, d, deps.TemplatesOf(m))
	return &InstallResult{Dependency: d, Step: step}, err
}

// InstallDepsOptions configures install-deps.
type InstallDepsOptions struct {
	KeepGoing bool
}

// InstallDeps runs the full dependency sweep regardless of the lock state and
// marks the lock installed when every install succeeds.
func (e *Engine) InstallDeps(ctx context.Context, opts InstallDepsOptions) (*InstallDepsResult, error) {
	m, err := manifest.Load(e.ManifestPath)
	if err != nil {
		return nil, err
	}
	sh, err := e.shell(m)
	if err != nil {
		return nil, err
	}

	guard, err := lock.Acquire(e.lockPath())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := guard.Release(); err != nil {
			e.logger().Warn("releasing lock guard", "error", err)
		}
	}()

	store := &lock.Store{Path: e.lockPath()}
	result := &InstallDepsResult{State: lock.PendingInstall}

	report, err := e.installer(m, sh, opts.KeepGoing).InstallAll(ctx, deps.FromMap(m.ExternalDependencies), deps.TemplatesOf(m))
	result.Report = report
	if err != nil {
		if lf, lerr := lock.Load(store.Path); lerr == nil {
			result.State = lf.State()
		}
		return result, err
	}

	if err := store.MarkInstalled(); err != nil {
		return result, err
	}
	result.State = lock.Installed
	return result, nil
}
