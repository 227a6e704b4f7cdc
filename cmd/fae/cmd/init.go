package cmd

import (
	"fmt"
	"os"

	"github.com/bianoble/fae/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	initForce    bool
	initLanguage string
	initMain     string
	initShell    string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter fae.config.json manifest",
	Long: `Creates a fae.config.json in the current directory naming the entry point and
its language. Python and Node projects also get pip or npm install command
templates.

Use --force to overwrite an existing manifest.`,
	Args: argsRange(0, 0),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, err := manifestAbs()
		if err != nil {
			return err
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		data, err := manifest.Scaffold(manifest.ScaffoldOptions{
			Main:     initMain,
			Language: initLanguage,
			Shell:    initShell,
		})
		if err != nil {
			return err
		}

		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Add dependencies with 'fae install <package> [version]'")
		info("  2. Run 'fae start' to install them and launch %s", initMain)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing manifest")
	initCmd.Flags().StringVar(&initLanguage, "language", "python", "language tag of the entry point")
	initCmd.Flags().StringVar(&initMain, "main", "main.py", "entry point file")
	initCmd.Flags().StringVar(&initShell, "shell", "", "shell tag (default: platform command shell)")
	rootCmd.AddCommand(initCmd)
}
