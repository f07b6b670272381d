// Package cli provides the command-line interface for chatstat.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chatstat",
		Short: "Analyse exported chat logs",
		Long: `chatstat parses exported WhatsApp-style chat logs and computes
conversation analytics.

It reports:
  - Per-user message, word, link and media counts
  - Activity timelines and time-of-day patterns
  - Word and emoji usage
  - Reply times and conversation flow

Parsed records can be saved with 'parse' (or 'analyze --save') and analysed
again later with 'report <data-id>'.

Configuration is optional. Pass --config to load a YAML file; the
CHATSTAT_LOG_LEVEL, CHATSTAT_STORE_BACKEND, CHATSTAT_STORE_DIR and
CHATSTAT_STORE_PATH environment variables override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.BindGlobalFlags(rootCmd)

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
