package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what start would do",
	Long: `Shows the manifest's entry point, language, shell, composed command, output
destination, dependencies with their expanded install commands, scripts, and
the lock state. The guard file next to the lock file holds an OS lock while
fae rewrites the lock file; it is safe to delete when no fae process is
running. Problems that would make start fail are listed last.`,
	Args: argsRange(0, 0),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}

		s, err := eng.Status()
		if err != nil {
			return err
		}

		fmt.Printf("manifest:  %s\n", s.ManifestPath)
		fmt.Printf("lock:      %s (%s)\n", s.LockPath, s.LockState)
		fmt.Printf("guard:     %s\n", s.GuardPath)
		fmt.Printf("main:      %s\n", s.Main)
		fmt.Printf("language:  %s\n", s.Language)
		fmt.Printf("shell:     %s\n", s.Shell)
		if s.Command != "" {
			fmt.Printf("command:   %s\n", s.Command)
		}
		if s.Output != "" {
			mode := "overwrite"
			if s.AppendOutput {
				mode = "append"
			}
			fmt.Printf("output:    %s (%s)\n", s.Output, mode)
		}

		if len(s.Dependencies) > 0 {
			fmt.Println("\nDependencies:")
			fmt.Printf("  %-24s %-12s %s\n", "PACKAGE", "VERSION", "COMMAND")
			for _, d := range s.Dependencies {
				fmt.Printf("  %-24s %-12s %s\n", d.Package, d.Version, d.Command)
			}
		}

		if len(s.Scripts) > 0 {
			fmt.Println("\nScripts:")
			for _, name := range s.Scripts {
				fmt.Printf("  %s\n", name)
			}
		}

		if len(s.Problems) > 0 {
			fmt.Println("\nProblems:")
			for _, p := range s.Problems {
				fmt.Printf("  %s\n", p)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
