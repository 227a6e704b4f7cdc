package cmd

import (
	"github.com/bianoble/fae/internal/engine"
	"github.com/spf13/cobra"
)

var (
	startWait        bool
	startSkipInstall bool
	startShell       shellTag
)

var startCmd = &cobra.Command{
	Use:   "start [-- args...]",
	Short: "Install dependencies if needed, then launch the entry point",
	Long: `Launches the manifest's main file with its language's interpreter through
the configured shell. Arguments after -- follow the manifest's args.

The first start in a project (or any start after a failed install) runs every
install command in externalDependencies first. Nothing is launched if an
install fails; the next start retries.

By default the program is launched detached and fae exits immediately. With
--wait (or "waitForExit": true) fae waits and exits with the program's code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		eng.ShellOverride = string(startShell)

		opts := engine.StartOptions{SkipInstall: startSkipInstall, Args: args}
		if cmd.Flags().Changed("wait") {
			opts.Wait = &startWait
		}

		res, err := eng.Start(cmd.Context(), opts)
		if res != nil && res.Bootstrap != nil && res.Bootstrap.Ran {
			info("Installing dependencies (lock: %s)", res.Bootstrap.Before)
			if res.Bootstrap.Report != nil {
				printSteps(res.Bootstrap.Report.Steps)
			}
		}
		if err != nil {
			return err
		}

		detail("command: %s", res.Command)
		if res.Command.Redirect != nil {
			detail("output:  %s", res.Command.Redirect.Path)
		}
		if !res.Waited {
			info("Started %s (pid %d)", res.Command.Program, res.Pid)
		}
		return nil
	},
}

func init() {
	startCmd.Flags().BoolVar(&startWait, "wait", false, "wait for the program and exit with its code")
	startCmd.Flags().BoolVar(&startSkipInstall, "skip-install", false, "do not install dependencies, even on first run")
	startCmd.Flags().Var(&startShell, "shell", "shell tag overriding the manifest's shell")
	rootCmd.AddCommand(startCmd)
}
