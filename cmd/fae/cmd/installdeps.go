package cmd

import (
	"github.com/bianoble/fae/internal/engine"
	"github.com/spf13/cobra"
)

var installDepsKeepGoing bool

var installDepsCmd = &cobra.Command{
	Use:   "install-deps",
	Short: "Run every dependency install command",
	Long: `Runs the install command for every entry in externalDependencies, in package
name order, regardless of the lock file. On success the lock file is marked
installed so start does not repeat the sweep.

The sweep stops at the first failure unless --keep-going is set.`,
	Args: argsRange(0, 0),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}

		res, err := eng.InstallDeps(cmd.Context(), engine.InstallDepsOptions{KeepGoing: installDepsKeepGoing})
		if res != nil && res.Report != nil {
			printSteps(res.Report.Steps)
		}
		if err != nil {
			return err
		}

		info("")
		info("Installed %d dependencies (lock: %s).", len(res.Report.Steps), res.State)
		return nil
	},
}

func init() {
	installDepsCmd.Flags().BoolVar(&installDepsKeepGoing, "keep-going", false, "attempt every dependency and report all failures")
	rootCmd.AddCommand(installDepsCmd)
}
