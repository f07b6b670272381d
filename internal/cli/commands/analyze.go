package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/output"
	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/store"
	"github.com/ccollicutt/chatstat/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

const dateFlagLayout = "2006-01-02"

// AnalyzeOptions holds command-line options for the analyze and report commands.
type AnalyzeOptions struct {
	Output    string
	Verbose   bool
	Quiet     bool
	Gap       time.Duration
	Top       int
	Views     []string
	StopWords string
	Since     string
	Until     string
	Save      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <export-file>",
		Short: "Parse a chat export and print analytics",
		Long: `Parse a chat export file and compute conversation analytics.

Views:
  basic, users, timeline, user_timeline, words, emoji, time_patterns,
  reply_times, message_types, links, conversation_flow, user_message_types

Exit codes:
  0 - Messages analysed
  1 - No analysable messages found
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	addAnalysisFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save parsed records to the store and print the data id")

	return cmd
}

func addAnalysisFlags(cmd *cobra.Command, opts *AnalyzeOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show every row and parse statistics")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().DurationVar(&opts.Gap, "gap", 0, "Silence that splits conversations (default from config, 60m)")
	cmd.Flags().IntVar(&opts.Top, "top", 0, "Number of words in the word usage view (default from config, 100)")
	cmd.Flags().StringSliceVar(&opts.Views, "view", nil, "Compute specific view(s) only (can be repeated)")
	cmd.Flags().StringVar(&opts.StopWords, "stop-words", "", "File of stop words replacing the built-in list")
	cmd.Flags().StringVar(&opts.Since, "since", "", "Only analyse messages on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Until, "until", "", "Only analyse messages on or before this date (YYYY-MM-DD)")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnData), "When to fire webhook (on_data|always|never)")
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	exportPath := args[0]
	ctx := commandContext(cmd)

	// Validate flags before doing any work
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

	p := parser.New(parser.WithLogger(env.logger.Named("parser")))
	parsed, err := p.ParseFile(ctx, exportPath)
	if err != nil {
		return err
	}
	env.logger.Info("parsed export",
		zap.String("file", exportPath),
		zap.Int("messages", parsed.Stats.Messages),
		zap.Int("lines", parsed.Stats.LinesRead))

	var dataID string
	if opts.Save {
		if dataID, err = saveRecords(ctx, env, parsed.Records); err != nil {
			return err
		}
	}

	return emitReport(ctx, cmd.OutOrStdout(), env, opts, formatter, analyzerOpts, reportInput{
		records: parsed.Records,
		stats:   &parsed.Stats,
		source:  exportPath,
		dataID:  dataID,
	})
}

// reportInput is what a report is computed from.
type reportInput struct {
	records []parser.MessageRecord
	stats   *parser.Stats
	source  string
	dataID  string
}

// emitReport analyses records, prints the report, fires webhooks and sets
// the exit code.
func emitReport(ctx context.Context, w io.Writer, env *environment, opts *AnalyzeOptions,
	formatter output.Formatter, analyzerOpts []analyzer.AnalyzerOption, in reportInput) error {

	a, err := analyzer.New(analyzerOpts...)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	result, err := a.Analyze(ctx, in.records)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := output.NewReport(result, in.stats, in.source)
	report.Metadata.DataID = in.dataID

	if err := formatter.Format(ctx, report, w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail analysis)
	sendWebhooks(ctx, env, opts, report)

	ExitCode = 0
	if !report.HasData() {
		ExitCode = 1
	}

	return nil
}

// buildAnalyzerOptions merges config values with flag overrides.
func buildAnalyzerOptions(env *environment, opts *AnalyzeOptions) ([]analyzer.AnalyzerOption, error) {
	analysis := env.cfg.Analysis
	if opts.Gap > 0 {
		analysis.ConversationGap = opts.Gap
	}
	if opts.Top > 0 {
		analysis.TopWords = opts.Top
	}
	if len(opts.Views) > 0 {
		analysis.Views = opts.Views
	}
	if opts.StopWords != "" {
		analysis.StopWordsFile = opts.StopWords
	}

	views, err := analysis.ParseViews()
	if err != nil {
		return nil, err
	}
	stopWords, err := analysis.StopWords()
	if err != nil {
		return nil, err
	}

	analyzerOpts := []analyzer.AnalyzerOption{
		analyzer.WithLogger(env.logger.Named("analyzer")),
		analyzer.WithConversationGap(analysis.ConversationGap),
		analyzer.WithTopWords(analysis.TopWords),
		analyzer.WithStopWords(stopWords),
		analyzer.WithViews(views),
	}

	if opts.Since != "" || opts.Until != "" {
		start, end, err := parseDateRange(opts.Since, opts.Until)
		if err != nil {
			return nil, err
		}
		analyzerOpts = append(analyzerOpts, analyzer.WithTimeRange(start, end))
	}

	return analyzerOpts, nil
}

// parseDateRange turns --since/--until into inclusive day bounds.
func parseDateRange(since, until string) (time.Time, time.Time, error) {
	var start, end time.Time
	if since != "" {
		t, err := time.Parse(dateFlagLayout, since)
		if err != nil {
			return start, end, fmt.Errorf("invalid --since %q: %w", since, err)
		}
		start = t
	}
	if until != "" {
		t, err := time.Parse(dateFlagLayout, until)
		if err != nil {
			return start, end, fmt.Errorf("invalid --until %q: %w", until, err)
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, fmt.Errorf("--until %s is before --since %s", until, since)
	}
	return start, end, nil
}

func saveRecords(ctx context.Context, env *environment, records []parser.MessageRecord) (string, error) {
	st, err := store.Open(ctx, env.cfg.Store, env.logger.Named("store"))
	if err != nil {
		return "", fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	id, err := st.Save(ctx, records)
	if err != nil {
		return "", fmt.Errorf("saving records: %w", err)
	}
	return id, nil
}

func createFormatter(opts *AnalyzeOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged but don't fail the analysis.
func sendWebhooks(ctx context.Context, env *environment, opts *AnalyzeOptions, report *output.Report) {
	webhooks := collectWebhooks(env.cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient(nil)

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasData()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			env.logger.Info("webhook sent",
				zap.String("webhook", name),
				zap.Int("status", resp.StatusCode),
				zap.Duration("took", resp.Duration))
		} else {
			env.logger.Warn("webhook failed",
				zap.String("webhook", name),
				zap.Error(resp.Error))
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnData
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire for a report.
func shouldFireWebhook(trigger config.WebhookTrigger, hasData bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasData
	}
}
