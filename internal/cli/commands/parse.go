package commands

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Output string
}

// parseSummary is the JSON form of a parse run.
type parseSummary struct {
	File   string       `json:"file"`
	DataID string       `json:"data_id"`
	Stats  parser.Stats `json:"stats"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <export-file>",
		Short: "Parse a chat export and save the records",
		Long: `Parse a chat export file and save the resulting message records to the
configured store. The printed data id can be passed to 'chatstat report'.

Example:
  chatstat parse WhatsApp-Chat.txt
  chatstat report 3f2b8c9e-7d4a-4a35-9f57-0c1e2d3b4a5f`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	exportPath := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	p := parser.New(parser.WithLogger(env.logger.Named("parser")))
	parsed, err := p.ParseFile(ctx, exportPath)
	if err != nil {
		return err
	}

	id, err := saveRecords(ctx, env, parsed.Records)
	if err != nil {
		return err
	}
	env.logger.Info("saved records",
		zap.String("data_id", id),
		zap.Int("records", len(parsed.Records)),
		zap.String("backend", string(env.cfg.Store.Backend)))

	ExitCode = 0
	if len(parsed.Records) == 0 {
		ExitCode = 1
	}

	if opts.Output == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(parseSummary{File: exportPath, DataID: id, Stats: parsed.Stats})
	}

	fmt.Fprintf(w, "Parsed %s messages from %s\n", humanize.Comma(int64(len(parsed.Records))), exportPath)
	if f := parsed.Stats.DominantFormat(); f != "" {
		fmt.Fprintf(w, "Format: %s\n", f)
	}
	if dropped := parsed.Stats.OrphanLines + parsed.Stats.RejectedLines; dropped > 0 {
		fmt.Fprintf(w, "Dropped lines: %s\n", humanize.Comma(int64(dropped)))
	}
	fmt.Fprintf(w, "Data ID: %s\n", id)
	return nil
}
