package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bianoble/fae/internal/dispatch"
	"github.com/bianoble/fae/internal/fault"
	"github.com/bianoble/fae/internal/manifest"
	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	manifestPath   string
	lockfilePath   string
	settingsPath   string
	verbose        bool
	quiet          bool
	noInherit      bool
	installTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "fae",
	Short: "Run a project from its fae.config.json manifest",
	Long: `fae reads a fae.config.json manifest, resolves the entry point's language
and shell, installs external dependencies the first time a project is started,
and launches the program, optionally redirecting its output to a timestamped
log file.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fault.Newf(fault.InvalidCommand, "", "no command provided (see 'fae --help')")
		}
		return fault.New(fault.InvalidCommand, args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fae %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", manifest.FileName, "path to manifest")
	rootCmd.PersistentFlags().StringVar(&lockfilePath, "lockfile", "", "path to lock file (default: fae.lock.json next to the manifest)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "path to project settings (default: .fae.yaml next to the manifest)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noInherit, "no-inherit", false, "ignore system and user settings")
	rootCmd.PersistentFlags().DurationVar(&installTimeout, "install-timeout", 0, "bound for each install command, overriding manifest and settings (0 = none)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context, which stops a running install.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *dispatch.ExitError
		if !errors.As(err, &exitErr) || verbose {
			errorf("%s", err)
		}
		return err
	}
	return nil
}

// ExitCode maps an error returned by Execute to the process exit status.
// A waited-for program's own exit code is passed through.
func ExitCode(err error) int {
	var exitErr *dispatch.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}
