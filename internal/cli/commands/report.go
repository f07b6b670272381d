package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/store"
)

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "report <data-id>",
		Short: "Analyse records saved by a previous parse",
		Long: `Load message records saved by 'chatstat parse' or 'chatstat analyze --save'
and print analytics for them. Accepts the same output and analysis flags as
'chatstat analyze'.

Exit codes:
  0 - Messages analysed
  1 - No analysable messages found
  2 - Configuration or runtime error (including unknown data id)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, opts)
		},
	}

	addAnalysisFlags(cmd, opts)

	return cmd
}

func runReport(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	id := args[0]
	ctx := commandContext(cmd)

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	analyzerOpts, err := buildAnalyzerOptions(env, opts)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, env.cfg.Store, env.logger.Named("store"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	records, err := st.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no saved records for data id %s", id)
	}
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	return emitReport(ctx, cmd.OutOrStdout(), env, opts, formatter, analyzerOpts, reportInput{
		records: records,
		source:  id,
		dataID:  id,
	})
}
