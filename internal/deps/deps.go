// Package deps installs a manifest's external dependencies by running its
// install command templates, one dependency at a time.
package deps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bianoble/fae/internal/compose"
	"github.com/bianoble/fae/internal/dispatch"
	"github.com/bianoble/fae/internal/fault"
	"github.com/bianoble/fae/internal/manifest"
	"github.com/bianoble/fae/internal/registry"
	"github.com/bianoble/fae/internal/transcript"
)

// DefaultTimeout bounds a single install command unless configured otherwise.
const DefaultTimeout = 10 * time.Minute

// Template placeholders.
const (
	PackagePlaceholder = "<pkg>"
	VersionPlaceholder = "<version>"
)

// Dependency is one externalDependencies entry.
type Dependency struct {
	Package string
	Version string
}

// Latest reports whether the dependency asks for the newest version.
func (d Dependency) Latest() bool {
	return d.Version == manifest.LatestVersion
}

func (d Dependency) String() string {
	return d.Package + "@" + strings.TrimPrefix(d.Version, "@")
}

// FromMap returns the dependencies of m sorted by package name.
func FromMap(m map[string]string) []Dependency {
	out := make([]Dependency, 0, len(m))
	for pkg, version := range m {
		out = append(out, Dependency{Package: pkg, Version: version})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Package < out[j].Package })
	return out
}

// Templates holds the manifest's install command templates.
type Templates struct {
	Latest    string
	Versioned string
}

// TemplatesOf extracts the install templates from m.
func TemplatesOf(m *manifest.Manifest) Templates {
	return Templates{Latest: m.InstallationCommandLatest, Versioned: m.InstallationCommandVersion}
}

// Select returns the template for d. A missing template is a
// fault.MissingRequiredField naming the manifest key; a blank package name
// or version is a fault.MalformedManifest naming the entry.
func (t Templates) Select(d Dependency) (string, error) {
	if strings.TrimSpace(d.Package) == "" {
		return "", fault.Newf(fault.MalformedManifest, manifest.KeyExternalDependencies, "package names must not be empty")
	}
	if strings.TrimSpace(d.Version) == "" {
		return "", fault.Newf(fault.MalformedManifest, manifest.KeyExternalDependencies+"."+d.Package,
			"%q has an empty version; use a version or %q", d.Package, manifest.LatestVersion)
	}
	tmpl, key := t.Versioned, manifest.KeyInstallationCommandVersion
	if d.Latest() {
		tmpl, key = t.Latest, manifest.KeyInstallationCommandLatest
	}
	if strings.TrimSpace(tmpl) == "" {
		return "", fault.New(fault.MissingRequiredField, key)
	}
	return tmpl, nil
}

// Expand substitutes d into tmpl and splits the result on whitespace.
// Package names and versions containing spaces are not supported.
func Expand(tmpl string, d Dependency) []string {
	r := strings.NewReplacer(PackagePlaceholder, d.Package, VersionPlaceholder, d.Version)
	return strings.Fields(r.Replace(tmpl))
}

// Step is the outcome of installing one dependency.
type Step struct {
	Dependency Dependency
	Command    string
	ExitCode   int
	Transcript string // transcript reference, empty when nothing was captured
	Duration   time.Duration
	Err        error
}

// OK reports whether the install command ran and exited zero.
func (s Step) OK() bool { return s.Err == nil }

// Report collects the steps of a sweep, in execution order.
type Report struct {
	Steps []Step
}

// Failed returns the unsuccessful steps.
func (r *Report) Failed() []Step {
	var out []Step
	for _, s := range r.Steps {
		if !s.OK() {
			out = append(out, s)
		}
	}
	return out
}

// Installer runs install commands through a shell.
type Installer struct {
	Shell       registry.Shell
	Dispatcher  dispatch.Dispatcher
	Transcripts *transcript.Store // optional
	Dir         string            // working directory, the project root

	// Timeout bounds each command. Zero means no bound.
	Timeout time.Duration

	// KeepGoing continues past failed installs and reports them together.
	KeepGoing bool

	Logger *slog.Logger
}

// InstallAll installs deps in order. By default the first failure stops the
// sweep; with KeepGoing every dependency is attempted and the failures are
// joined. A missing template, a blank entry, or a cancelled context always
// stops the sweep.
// The report is returned even on error.
func (i *Installer) InstallAll(ctx context.Context, deps []Dependency, tmpl Templates) (*Report, error) {
	report := &Report{}
	var failures []error

	for _, d := range deps {
		step, err := i.Install(ctx, d, tmpl)
		report.Steps = append(report.Steps, step)
		if err == nil {
			continue
		}
		if !i.KeepGoing || !errors.Is(err, fault.InstallFailure) {
			return report, err
		}
		failures = append(failures, err)
	}

	return report, errors.Join(failures...)
}

// Install runs the install command for a single dependency and waits for it.
func (i *Installer) Install(ctx context.Context, d Dependency, tmpl Templates) (Step, error) {
	step := Step{Dependency: d, ExitCode: -1}
	log := i.logger().With("package", d.Package, "version", d.Version)

	t, err := tmpl.Select(d)
	if err != nil {
		step.Err = err
		return step, err
	}

	fields := Expand(t, d)
	cmd := compose.Command{Program: fields[0], Args: fields[1:]}
	step.Command = strings.Join(fields, " ")

	inv := i.Shell.Render(cmd)
	log.Debug("installing", "command", step.Command)

	res, err := i.Dispatcher.Spawn(ctx, dispatch.Spec{
		Path:    inv.Path,
		Args:    inv.Args,
		CmdLine: inv.CmdLine,
		Dir:     i.Dir,
		Mode:    dispatch.Capture,
		Timeout: i.Timeout,
	})
	if res != nil {
		step.ExitCode = res.ExitCode
		step.Duration = res.Duration
		step.Transcript = i.keep(log, res.Output)
	}

	switch {
	case ctx.Err() != nil:
		step.Err = ctx.Err()
		return step, fmt.Errorf("installing %s: %w", d.Package, ctx.Err())
	case err != nil:
		step.Err = fault.Wrap(fault.InstallFailure, d.Package, err)
	case step.ExitCode != 0:
		step.Err = &fault.Error{
			Kind:    fault.InstallFailure,
			Subject: d.Package,
			Msg:     failureMessage(d, step),
		}
	default:
		log.Info("installed", "duration", step.Duration)
		return step, nil
	}

	log.Warn("install failed", "error", step.Err)
	return step, step.Err
}

func (i *Installer) keep(log *slog.Logger, output []byte) string {
	if i.Transcripts == nil || len(output) == 0 {
		return ""
	}
	ref, err := i.Transcripts.Put(output)
	if err != nil {
		log.Warn("storing transcript", "error", err)
		return ""
	}
	return ref
}

func (i *Installer) logger() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func failureMessage(d Dependency, s Step) string {
	msg := fmt.Sprintf("installing %s failed: %q exited with code %d", d.Package, s.Command, s.ExitCode)
	if s.Transcript != "" {
		msg += fmt.Sprintf(" (see 'fae transcript %s')", s.Transcript)
	}
	return msg
}
