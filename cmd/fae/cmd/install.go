package cmd

import (
	"github.com/bianoble/fae/internal/fault"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <package> [version]",
	Short: "Add a dependency to the manifest and install it",
	Long: `Records the package in externalDependencies (version defaults to @latest)
and runs installationCommandLatest or installationCommandVersion with <pkg> and
<version> substituted. The manifest entry is kept even if the install fails.`,
	Args: argsRange(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}

		version := ""
		if len(args) > 1 {
			version = args[1]
		}

		res, err := eng.Install(cmd.Context(), args[0], version)
		if res != nil && res.Step.Command != "" {
			detail("command: %s", res.Step.Command)
		}
		if err != nil {
			return err
		}

		info("Installed %s", res.Dependency)
		return nil
	},
}

// argsRange validates the positional argument count, reporting a violation
// as an invalid command. A negative hi means no upper bound.
func argsRange(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || (hi >= 0 && len(args) > hi) {
			return fault.Newf(fault.InvalidCommand, cmd.Name(), "usage: fae %s", cmd.Use)
		}
		return nil
	}
}

func init() {
	rootCmd.AddCommand(installCmd)
}
