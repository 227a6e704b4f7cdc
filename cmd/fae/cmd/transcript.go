package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript <ref>",
	Short: "Print the captured output of an install command",
	Long: `Install commands run with their output captured. Failures name a transcript
reference; this prints the stored output for it.`,
	Args: argsRange(1, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := newTranscripts()
		if err != nil {
			return err
		}

		data, ok, err := ts.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no transcript %s in %s", args[0], ts.Path())
		}

		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(transcriptCmd)
}
