package engine

import (
	"context"
	"strings"

	"github.com/bianoble/fae/internal/dispatch"
	"github.com/bianoble/fae/internal/fault"
	"github.com/bianoble/fae/internal/manifest"
)

// RunScript runs scripts[name] through the manifest's shell and waits for
// it. Extra arguments are quoted and appended to the script line. A non-zero
// exit returns a *dispatch.ExitError alongside the result.
func (e *Engine) RunScript(ctx context.Context, name string, args []string) (*RunResult, error) {
	m, err := manifest.Load(e.ManifestPath)
	if err != nil {
		return nil, err
	}

	line, ok := m.Scripts[name]
	if !ok {
		return nil, fault.Newf(fault.MissingRequiredField, "scripts."+name, "no script named %q in %s", name, manifest.FileName)
	}

	if strings.TrimSpace(line) == "" {
		return nil, fault.Newf(fault.MissingRequiredField, "scripts."+name, "script %q is empty", name)
	}

	sh, err := e.shell(m)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		quoted := args
		if !sh.Direct() {
			q := sh.Quoter()
			quoted = make([]string, len(args))
			for i, a := range args {
				quoted[i] = q.Quote(a)
			}
		}
		line += " " + strings.Join(quoted, " ")
	}

	inv := sh.RenderLine(line)
	result := &RunResult{Script: name, Line: line, Invocation: inv, ExitCode: -1}
	if inv.Path == "" {
		return result, fault.Newf(fault.MissingRequiredField, "scripts."+name, "script %q is empty", name)
	}

	e.logger().Debug("running script", "script", name, "line", line, "shell", sh.Name)
	res, err := e.dispatcher().Spawn(ctx, dispatch.Spec{
		Path:    inv.Path,
		Args:    inv.Args,
		CmdLine: inv.CmdLine,
		Dir:     e.Root(),
		Mode:    dispatch.Wait,
	})
	if err != nil {
		return result, err
	}
	result.ExitCode = res.ExitCode
	if res.ExitCode != 0 {
		return result, &dispatch.ExitError{Command: line, Code: res.ExitCode}
	}
	return result, nil
}
