package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectDir    string
	outputJSON    bool
	verboseOutput bool
	quietOutput   bool
)

// Execute dispatches to the selected subcommand and exits non-zero on
// failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "droidbuild",
		Short: "Prepare Android gradle projects against a local SDK",
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to session directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Emit JSON reports instead of tables")
	cmd.PersistentFlags().BoolVarP(&verboseOutput, "verbose", "v", false, "Mirror log lines to stderr")
	cmd.PersistentFlags().BoolVarP(&quietOutput, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newAdaptCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// Logger is the slice of log.Logger the commands write through.
type Logger interface {
	Printf(format string, v ...any)
}

// commandLogf writes to the command log and, with --verbose, mirrors each
// line to stderr.
func commandLogf(cmd *cobra.Command, logger Logger) func(format string, v ...any) {
	return func(format string, v ...any) {
		if logger != nil {
			logger.Printf(format, v...)
		}
		if verboseOutput {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", v...)
		}
	}
}
