package engine

import (
	"errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/bianoble/fae/internal/compose"
	"github.com/bianoble/fae/internal/deps"
	"github.com/bianoble/fae/internal/lock"
	"github.com/bianoble/fae/internal/manifest"
)

// DependencyStatus describes one externalDependencies entry.
type DependencyStatus struct {
	Package string
	Version string
	Command string // expanded install command, empty if no template applies
}

// StatusResult summarizes a project without changing anything on disk.
type StatusResult struct {
	ManifestPath string
	LockPath     string
	GuardPath    string // sidecar holding the OS lock while the lock file is rewritten
	LockState    lock.State

	Main     string
	Language string
	Shell    string
	Command  string // composed start command, empty if it cannot be composed

	Output       string // output destination with the time placeholder expanded
	AppendOutput bool

	Dependencies []DependencyStatus
	Scripts      []string

	// Problems lists what would make start fail.
	Problems []string
}

// Status reads the manifest and lock file and reports what start would do.
// Only a missing or malformed manifest is an error; everything else is
// collected in Problems.
func (e *Engine) Status() (*StatusResult, error) {
	m, err := manifest.Load(e.ManifestPath)
	if err != nil {
		return nil, err
	}

	r := &StatusResult{
		ManifestPath: e.ManifestPath,
		LockPath:     e.lockPath(),
		GuardPath:    lock.GuardPath(e.lockPath()),
		Main:         m.Main,
		Language:     m.Language,
		Shell:        e.shellTag(m),
	}

	lf, err := lock.Load(r.LockPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.LockState = lock.Uninitialized
	case err != nil:
		r.LockState = lock.Unknown
		r.Problems = append(r.Problems, err.Error())
	default:
		r.LockState = lf.State()
	}

	if err := m.RequireStart(); err != nil {
		r.Problems = append(r.Problems, err.Error())
	}

	sh, shErr := e.shell(m)
	if shErr != nil {
		r.Problems = append(r.Problems, shErr.Error())
	} else if r.Shell == "" {
		r.Shell = e.shells().DefaultTag()
	}

	if m.Language != "" && m.Main != "" {
		lang, err := e.languages().Resolve(m.Language)
		if err != nil {
			r.Problems = append(r.Problems, err.Error())
		} else {
			composer := &compose.Composer{Root: e.Root(), Now: e.Now}
			cmd := composer.Compose(lang.Invocation(m.Main, m.Args), m.OutputPolicy())
			if shErr == nil {
				r.Command = cmd.Line(sh.Quoter())
			} else {
				r.Command = cmd.String()
			}
			if cmd.Redirect != nil {
				r.Output = cmd.Redirect.Path
				r.AppendOutput = cmd.Redirect.Append
			}
		}
	}

	tmpl := deps.TemplatesOf(m)
	for _, d := range deps.FromMap(m.ExternalDependencies) {
		ds := DependencyStatus{Package: d.Package, Version: d.Version}
		if t, err := tmpl.Select(d); err != nil {
			r.Problems = append(r.Problems, d.Package+": "+err.Error())
		} else {
			ds.Command = strings.Join(deps.Expand(t, d), " ")
		}
		r.Dependencies = append(r.Dependencies, ds)
	}

	for name := range m.Scripts {
		r.Scripts = append(r.Scripts, name)
	}
	sort.Strings(r.Scripts)

	return r, nil
}
