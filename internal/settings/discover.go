package settings

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const settingsFileName = "settings.yaml"
const settingsDirName = "fae"

// ProjectFileName is the optional per-project settings file, read from the
// directory holding the manifest.
const ProjectFileName = ".fae.yaml"

// Level represents the precedence level of a settings file.
type Level string

const (
	LevelSystem  Level = "system"
	LevelUser    Level = "user"
	LevelProject Level = "project"
)

// LayerInfo describes a discovered settings file and its load status.
type LayerInfo struct {
	Err    error // non-nil if the file exists but failed to load
	Path   string
	Level  Level
	Loaded bool
}

// DiscoverOptions controls how settings paths are discovered.
type DiscoverOptions struct {
	// ProjectPath is the project-level settings path.
	ProjectPath string

	// SystemPath overrides the default system settings path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	SystemPath string

	// UserPath overrides the default user settings path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	UserPath string
}

// DiscoverPaths returns the ordered list of settings paths to check,
// from lowest precedence (system) to highest (project).
// Paths are deduplicated by resolved absolute path.
func DiscoverPaths(opts DiscoverOptions) []LayerInfo {
	var layers []LayerInfo
	seen := make(map[string]bool)

	addLayer := func(level Level, path string) {
		if path == "" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		layers = append(layers, LayerInfo{
			Path:  path,
			Level: level,
		})
	}

	sysPath := opts.SystemPath
	if sysPath == "" {
		sysPath = defaultSystemPath()
	}
	addLayer(LevelSystem, sysPath)

	userPath := opts.UserPath
	if userPath == "" {
		userPath = defaultUserPath()
	}
	addLayer(LevelUser, userPath)

	addLayer(LevelProject, opts.ProjectPath)

	return layers
}

func defaultSystemPath() string {
	switch runtime.GOOS {
	case "windows":
		pd := os.Getenv("ProgramData")
		if pd == "" {
			pd = `C:\ProgramData`
		}
		return filepath.Join(pd, settingsDirName, settingsFileName)
	default:
		return filepath.Join("/etc", settingsDirName, settingsFileName)
	}
}

func defaultUserPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, settingsDirName, settingsFileName)
}

// EnvNoInherit returns true if FAE_NO_INHERIT is set to "1" or "true".
func EnvNoInherit() bool {
	return envBoolTrue("FAE_NO_INHERIT")
}

func envBoolTrue(key string) bool {
	v := os.Getenv(key)
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true"
}
