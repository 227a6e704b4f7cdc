package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/fae/internal/compose"
	"github.com/bianoble/fae/internal/dispatch"
	"github.com/bianoble/fae/internal/manifest"
)

// StartOptions configures start.
type StartOptions struct {
	// Wait overrides the manifest's waitForExit when non-nil.
	Wait *bool

	// SkipInstall skips the dependency bootstrap.
	SkipInstall bool

	// Args follow the manifest's args on the command line.
	Args []string
}

// Start launches the manifest's entry point, installing dependencies first
// when the lock file is pending. Detached launches return as soon as the
// process exists. Waited launches that exit non-zero return a
// *dispatch.ExitError alongside the result.
func (e *Engine) Start(ctx context.Context, opts StartOptions) (*StartResult, error) {
	log := e.logger()

	m, err := manifest.Load(e.ManifestPath)
	if err != nil {
		return nil, err
	}
	if err := m.RequireStart(); err != nil {
		return nil, err
	}

	lang, err := e.languages().Resolve(m.Language)
	if err != nil {
		return nil, err
	}
	sh, err := e.shell(m)
	if err != nil {
		return nil, err
	}

	composer := &compose.Composer{Root: e.Root(), Now: e.Now}
	extra := append(append([]string(nil), m.Args...), opts.Args...)
	cmd := composer.Compose(lang.Invocation(m.Main, extra), m.OutputPolicy())

	result := &StartResult{Command: cmd, ExitCode: -1}

	if !opts.SkipInstall {
		boot, err := e.Bootstrap(ctx, m, sh)
		result.Bootstrap = boot
		if err != nil {
			return result, err
		}
	}

	if cmd.Redirect != nil {
		if err := os.MkdirAll(filepath.Dir(cmd.Redirect.Path), 0755); err != nil {
			return result, fmt.Errorf("creating output directory: %w", err)
		}
	}

	wait := m.Wait()
	if opts.Wait != nil {
		wait = *opts.Wait
	}
	mode := dispatch.Detached
	if wait {
		mode = dispatch.Wait
	}

	inv := sh.Render(cmd)
	result.Invocation = inv
	spec := dispatch.Spec{
		Path:    inv.Path,
		Args:    inv.Args,
		CmdLine: inv.CmdLine,
		Dir:     e.Root(),
		Mode:    mode,
	}
	if inv.Redirect != nil {
		spec.OutputFile = inv.Redirect.Path
		spec.AppendOutput = inv.Redirect.Append
	}

	log.Debug("starting", "command", cmd.String(), "shell", sh.Name, "mode", mode.String())
	res, err := e.dispatcher().Spawn(ctx, spec)
	if err != nil {
		return result, err
	}
	result.Pid = res.Pid
	result.Waited = wait
	result.ExitCode = res.ExitCode

	if wait && res.ExitCode != 0 {
		return result, &dispatch.ExitError{Command: cmd.String(), Code: res.ExitCode}
	}
	return result, nil
}
