package cmd

import (
	"github.com/spf13/cobra"
)

var runShell shellTag

var runCmd = &cobra.Command{
	Use:   "run <script> [-- args...]",
	Short: "Run a script from the manifest",
	Long: `Runs scripts.<script> from the manifest through the configured shell in the
project root and waits for it. Extra arguments are quoted and appended. fae
exits with the script's exit code.`,
	Args: argsRange(1, -1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		eng.ShellOverride = string(runShell)

		res, err := eng.RunScript(cmd.Context(), args[0], args[1:])
		if res != nil {
			detail("line: %s", res.Line)
		}
		return err
	},
}

func init() {
	runCmd.Flags().Var(&runShell, "shell", "shell tag overriding the manifest's shell")
	rootCmd.AddCommand(runCmd)
}
