package engine

import (
	"strings"

	"github.com/bianoble/fae/internal/registry"
	"github.com/bianoble/fae/internal/settings"
	"github.com/bianoble/fae/internal/transcript"
)

// SettingsLayerStatus describes a settings layer's load status for display.
type SettingsLayerStatus struct {
	Level  string // "system", "user", "project"
	Path   string
	Loaded bool
}

// InfoResult holds tool information for the info command.
type InfoResult struct {
	Version        string
	ManifestPath   string
	LockPath       string
	TranscriptDir  string
	TranscriptSize int64
	DefaultShell   string
	Languages      []TagInfo
	Shells         []TagInfo
	SettingsChain  []SettingsLayerStatus
}

// TagInfo describes a registered language or shell tag.
type TagInfo struct {
	Tag      string
	Command  string
	IsCustom bool
}

// Info gathers tool information.
func Info(version string, langs *registry.LanguageMap, shells *registry.ShellMap, ts *transcript.Store, layers []settings.LayerInfo, manifestPath, lockPath string) (*InfoResult, error) {
	r := &InfoResult{
		Version:      version,
		ManifestPath: manifestPath,
		LockPath:     lockPath,
	}

	if ts != nil {
		r.TranscriptDir = ts.Path()
		size, err := ts.Size()
		if err == nil {
			r.TranscriptSize = size
		}
	}

	if langs != nil {
		for _, tag := range langs.KnownTags() {
			lang, _ := langs.Resolve(tag)
			r.Languages = append(r.Languages, TagInfo{
				Tag:      tag,
				Command:  strings.Join(lang.Command, " "),
				IsCustom: langs.IsCustom(lang.Name),
			})
		}
	}

	if shells != nil {
		r.DefaultShell = shells.DefaultTag()
		for _, tag := range shells.KnownTags() {
			sh, _ := shells.Resolve(tag)
			cmd := "(direct)"
			if !sh.Direct() {
				cmd = strings.Join(append([]string{sh.Executable}, sh.Args...), " ")
			}
			r.Shells = append(r.Shells, TagInfo{
				Tag:      tag,
				Command:  cmd,
				IsCustom: shells.IsCustom(sh.Name),
			})
		}
	}

	for _, l := range layers {
		r.SettingsChain = append(r.SettingsChain, SettingsLayerStatus{
			Level:  string(l.Level),
			Path:   l.Path,
			Loaded: l.Loaded,
		})
	}

	return r, nil
}
