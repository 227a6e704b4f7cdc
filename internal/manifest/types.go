package manifest

// FileName is the manifest read from the project root.
const FileName = "fae.config.json"

// LatestVersion is the version sentinel selecting installationCommandLatest.
const LatestVersion = "@latest"

// Manifest is the project's fae.config.json.
type Manifest struct {
	Main     string            `json:"main,omitempty"`
	Args     []string          `json:"args,omitempty"`
	Scripts  map[string]string `json:"scripts,omitempty"`
	Language string            `json:"language,omitempty"`
	Shell    string            `json:"shell,omitempty"`

	// Output redirection. Both @fae.time and @time in SendOutputToFile are
	// replaced with the launch timestamp.
	SendOutputToFile               string `json:"sendOutputToFile,omitempty"`
	AppendOutputForConsecutiveRuns *bool  `json:"appendOutputForConsecutiveRuns,omitempty"`

	// ExternalDependencies maps package name to version or LatestVersion.
	ExternalDependencies map[string]string `json:"externalDependencies,omitempty"`

	// Install command templates; <pkg> and <version> are substituted.
	InstallationCommandLatest  string `json:"installationCommandLatest,omitempty"`
	InstallationCommandVersion string `json:"installationCommandVersion,omitempty"`

	// WaitForExit makes start wait for the program and exit with its code.
	WaitForExit *bool `json:"waitForExit,omitempty"`

	// InstallTimeout bounds each install command (Go duration string).
	InstallTimeout string `json:"installTimeout,omitempty"`
}

// Key names used in error messages.
const (
	KeyMain                       = "main"
	KeyLanguage                   = "language"
	KeyInstallationCommandLatest  = "installationCommandLatest"
	KeyInstallationCommandVersion = "installationCommandVersion"
	KeyExternalDependencies       = "externalDependencies"
)
