package settings

// Merge combines two settings layers where overlay takes precedence:
//   - default_shell, install_timeout: overlay wins when set
//   - languages, shells: merged by name; an overlay entry replaces the base entry
func Merge(base, overlay *Settings) *Settings {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}

	result := &Settings{
		DefaultShell:   base.DefaultShell,
		InstallTimeout: base.InstallTimeout,
	}
	if overlay.DefaultShell != "" {
		result.DefaultShell = overlay.DefaultShell
	}
	if overlay.InstallTimeout != "" {
		result.InstallTimeout = overlay.InstallTimeout
	}

	result.Languages = mergeNamed(base.Languages, overlay.Languages, func(l LanguageDefinition) string { return l.Name })
	result.Shells = mergeNamed(base.Shells, overlay.Shells, func(s ShellDefinition) string { return s.Name })

	return result
}

// MergeAll merges layers in order (lowest precedence first).
// Returns empty Settings when there are none.
func MergeAll(layers []*Settings) *Settings {
	result := &Settings{}
	for _, l := range layers {
		result = Merge(result, l)
	}
	return result
}

func mergeNamed[T any](base, overlay []T, name func(T) string) []T {
	if len(base) == 0 {
		return overlay
	}
	if len(overlay) == 0 {
		return base
	}

	overlayNames := make(map[string]bool, len(overlay))
	for _, item := range overlay {
		overlayNames[name(item)] = true
	}

	var result []T
	for _, item := range base {
		if !overlayNames[name(item)] {
			result = append(result, item)
		}
	}

	return append(result, overlay...)
}
