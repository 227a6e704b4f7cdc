package settings

// Settings is one layer of fae's YAML settings (system, user or project).
type Settings struct {
	// DefaultShell is the shell tag used when a manifest sets none.
	DefaultShell string `yaml:"default_shell,omitempty"`

	// InstallTimeout bounds each dependency install command, as a Go
	// duration string ("90s", "5m"). "0" disables the bound.
	InstallTimeout string `yaml:"install_timeout,omitempty"`

	Languages []LanguageDefinition `yaml:"languages,omitempty"`
	Shells    []ShellDefinition    `yaml:"shells,omitempty"`
}

// LanguageDefinition adds a language or overrides a built-in one.
// Command is the program followed by its arguments; the token "{file}"
// marks where the entry path goes. Without it the path is appended.
type LanguageDefinition struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
	Command []string `yaml:"command"`
}

// ShellDefinition adds a shell or overrides a built-in one.
type ShellDefinition struct {
	Name       string   `yaml:"name"`
	Aliases    []string `yaml:"aliases,omitempty"`
	Executable string   `yaml:"executable"`
	Args       []string `yaml:"args,omitempty"`    // e.g. ["-c"], ["/C"], ["-Command"]
	Quoting    string   `yaml:"quoting,omitempty"` // "posix", "cmd", "powershell"; default posix
}
