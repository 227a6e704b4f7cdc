package cmd

import (
	"fmt"

	"github.com/bianoble/fae/internal/engine"
	"github.com/bianoble/fae/internal/registry"
	"github.com/bianoble/fae/internal/settings"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about fae settings and registries",
	Long: `Displays the fae version, manifest and lock file paths, the settings chain,
the transcript directory and size, and every language and shell tag (built-in
and custom).`,
	Args: argsRange(0, 0),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}

		// Settings are optional here; a broken layer still shows in the chain.
		var layers []settings.LayerInfo
		s := &settings.Settings{}
		if hr, err := loadSettings(root); err == nil {
			s = hr.Settings
			layers = hr.Layers
		} else {
			errorf("%s", err)
		}
		ts, _ := newTranscripts()

		abs, _ := manifestAbs()
		result, err := engine.Info(version,
			registry.NewLanguageMap(s.Languages),
			registry.NewShellMap(s.Shells, s.DefaultShell),
			ts, layers, abs, resolvedLockPath(root))
		if err != nil {
			return err
		}

		fmt.Printf("fae %s\n", result.Version)
		fmt.Printf("  manifest:        %s\n", result.ManifestPath)
		fmt.Printf("  lock file:       %s\n", result.LockPath)

		if len(result.SettingsChain) > 0 {
			fmt.Println("  settings chain:")
			for _, layer := range result.SettingsChain {
				status := "not found"
				if layer.Loaded {
					status = "loaded"
				}
				fmt.Printf("    %-10s %s (%s)\n", layer.Level+":", layer.Path, status)
			}
		}

		fmt.Printf("  transcript dir:  %s\n", result.TranscriptDir)
		fmt.Printf("  transcript size: %s\n", humanSize(result.TranscriptSize))
		fmt.Printf("  default shell:   %s\n", result.DefaultShell)

		fmt.Println("\nLanguages:")
		for _, t := range result.Languages {
			fmt.Printf("  %-12s → %s%s\n", t.Tag, t.Command, customMark(t.IsCustom))
		}
		fmt.Println("\nShells:")
		for _, t := range result.Shells {
			fmt.Printf("  %-12s → %s%s\n", t.Tag, t.Command, customMark(t.IsCustom))
		}
		return nil
	},
}

func customMark(custom bool) string {
	if custom {
		return " (custom)"
	}
	return ""
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
