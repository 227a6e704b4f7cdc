package registry

import (
	"runtime"
	"strings"

	"github.com/bianoble/fae/internal/compose"
	"github.com/bianoble/fae/internal/fault"
	"github.com/bianoble/fae/internal/settings"
)

// DefaultShellTag is used when neither the manifest nor settings name a shell.
const DefaultShellTag = "cmd"

// Quoting selects a shell's token quoting rules.
type Quoting string

const (
	QuotePOSIX      Quoting = "posix"
	QuoteCmd        Quoting = "cmd"
	QuotePowerShell Quoting = "powershell"
	QuoteNone       Quoting = "none" // no shell; argv goes straight to the program
)

// Shell describes how to hand a command line to a shell executable.
type Shell struct {
	Name       string
	Executable string   // empty for direct execution
	Args       []string // inserted before the command line
	Quoting    Quoting
}

// Direct reports whether the shell runs programs without an intermediary.
func (s Shell) Direct() bool {
	return s.Quoting == QuoteNone
}

// Quoter returns the token quoting rules for this shell.
func (s Shell) Quoter() compose.Quoter {
	switch s.Quoting {
	case QuoteCmd:
		return compose.DoubleQuoter{}
	case QuotePowerShell:
		return powerShellQuoter{}
	default:
		return posixQuoter{}
	}
}

// Invocation is a command rendered for a particular shell.
type Invocation struct {
	Path string
	Args []string

	// CmdLine is the verbatim Windows command line for cmd.exe, whose
	// quoting rules differ from the ones os/exec applies. Empty otherwise.
	CmdLine string

	// Redirect is set only for direct execution, where no shell interprets
	// the redirection operator and the dispatcher opens the file itself.
	Redirect *compose.Redirect
}

// Render turns cmd into the process to spawn.
func (s Shell) Render(cmd compose.Command) Invocation {
	if s.Direct() {
		return Invocation{
			Path:     cmd.Program,
			Args:     append([]string(nil), cmd.Args...),
			Redirect: cmd.Redirect,
		}
	}

	line := cmd.Line(s.Quoter())
	if s.Quoting == QuotePowerShell {
		line = "& " + line
	}

	inv := Invocation{
		Path: s.Executable,
		Args: append(append([]string(nil), s.Args...), line),
	}
	if s.Quoting == QuoteCmd {
		// Outer quotes keep /S from stripping quotes that belong to the line.
		parts := append([]string{s.Executable}, s.Args...)
		inv.CmdLine = strings.Join(parts, " ") + ` "` + line + `"`
	}
	return inv
}

// RenderLine wraps a raw shell command line (a manifest script) without
// quoting it.
func (s Shell) RenderLine(line string) Invocation {
	if s.Direct() {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return Invocation{}
		}
		return Invocation{Path: fields[0], Args: fields[1:]}
	}
	inv := Invocation{
		Path: s.Executable,
		Args: append(append([]string(nil), s.Args...), line),
	}
	if s.Quoting == QuoteCmd {
		parts := append([]string{s.Executable}, s.Args...)
		inv.CmdLine = strings.Join(parts, " ") + ` "` + line + `"`
	}
	return inv
}

func builtinShells(goos string) []settings.ShellDefinition {
	command := settings.ShellDefinition{Name: "cmd", Aliases: []string{"command"}, Executable: "sh", Args: []string{"-c"}, Quoting: string(QuotePOSIX)}
	pwsh := settings.ShellDefinition{Name: "powershell", Aliases: []string{"psh", "pwsh"}, Executable: "pwsh", Args: []string{"-NoProfile", "-Command"}, Quoting: string(QuotePowerShell)}
	if goos == "windows" {
		command = settings.ShellDefinition{Name: "cmd", Aliases: []string{"command"}, Executable: "cmd", Args: []string{"/S", "/C"}, Quoting: string(QuoteCmd)}
		pwsh.Executable = "powershell"
	}
	return []settings.ShellDefinition{
		command,
		pwsh,
		{Name: "sh", Executable: "sh", Args: []string{"-c"}, Quoting: string(QuotePOSIX)},
		{Name: "bash", Executable: "bash", Args: []string{"-c"}, Quoting: string(QuotePOSIX)},
		{Name: "none", Aliases: []string{"direct"}, Quoting: string(QuoteNone)},
	}
}

// ShellMap resolves shell tags.
type ShellMap struct {
	byTag      map[string]Shell
	custom     map[string]bool
	defaultTag string
}

// NewShellMap creates a ShellMap for the running platform with built-in
// shells, custom overrides, and the tag used when a manifest names none
// (DefaultShellTag if empty).
func NewShellMap(customDefs []settings.ShellDefinition, defaultTag string) *ShellMap {
	return newShellMap(runtime.GOOS, customDefs, defaultTag)
}

func newShellMap(goos string, customDefs []settings.ShellDefinition, defaultTag string) *ShellMap {
	if strings.TrimSpace(defaultTag) == "" {
		defaultTag = DefaultShellTag
	}
	m := &ShellMap{
		byTag:      make(map[string]Shell),
		custom:     make(map[string]bool),
		defaultTag: defaultTag,
	}
	for _, def := range builtinShells(goos) {
		m.add(def)
	}
	for _, def := range customDefs {
		m.add(def)
		m.custom[normalizeTag(def.Name)] = true
	}
	return m
}

func (m *ShellMap) add(def settings.ShellDefinition) {
	q := Quoting(def.Quoting)
	if q == "" {
		q = QuotePOSIX
	}
	sh := Shell{
		Name:       def.Name,
		Executable: def.Executable,
		Args:       append([]string(nil), def.Args...),
		Quoting:    q,
	}
	m.byTag[normalizeTag(def.Name)] = sh
	for _, a := range def.Aliases {
		m.byTag[normalizeTag(a)] = sh
	}
}

// Resolve returns the shell for tag. An empty tag selects the default.
func (m *ShellMap) Resolve(tag string) (Shell, error) {
	key := normalizeTag(tag)
	if key == "" {
		key = normalizeTag(m.defaultTag)
		tag = m.defaultTag
	}
	sh, ok := m.byTag[key]
	if !ok {
		return Shell{}, fault.New(fault.UnsupportedShell, tag)
	}
	return sh, nil
}

// DefaultTag returns the tag used for an empty shell selection.
func (m *ShellMap) DefaultTag() string {
	return m.defaultTag
}

// KnownTags returns every accepted tag, sorted.
func (m *ShellMap) KnownTags() []string {
	return sortedKeys(m.byTag)
}

// IsCustom reports whether tag was defined in settings rather than built in.
func (m *ShellMap) IsCustom(tag string) bool {
	return m.custom[normalizeTag(tag)]
}

type posixQuoter struct{}

func (posixQuoter) Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (q posixQuoter) QuoteProgram(s string) string {
	if compose.NeedsQuoting(s) {
		return q.Quote(s)
	}
	return s
}

type powerShellQuoter struct{}

func (powerShellQuoter) Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (q powerShellQuoter) QuoteProgram(s string) string {
	if compose.NeedsQuoting(s) {
		return q.Quote(s)
	}
	return s
}
