package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/detector"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <export-file>",
		Short: "Diagnose problems reading a chat export",
		Long: `Diagnose common problems with a chat export and the configuration.

This command checks:
- Export file existence and readability
- Export format detection and date ordering
- Lines the parser had to drop or re-read
- Configuration file and webhooks (when --config is given)

Example:
  chatstat diagnose WhatsApp-Chat.txt
  chatstat diagnose -v --config chatstat.yaml WhatsApp-Chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(commandContext(cmd), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, exportPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Export file
	result := checkExportExists(exportPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 2. Format detection
	results = append(results, checkExportFormat(ctx, exportPath, opts))

	// 3. Full parse
	results = append(results, checkParse(ctx, exportPath, opts)...)

	// 4. Configuration, only when one was given
	if Global.ConfigPath != "" {
		cfg, result := checkConfigParseable(ctx, Global.ConfigPath)
		results = append(results, result)
		if cfg != nil {
			results = append(results, checkWebhooks(cfg, opts)...)
		}
	}

	printDiagnostics(w, results, opts)
	return nil
}

func checkExportExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Export File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Export file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access export file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Export file is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkExportFormat(ctx context.Context, path string, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Export Format",
	}

	det, err := detector.New().DetectFromFile(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read export: %v", err)
		return result
	}

	if !det.HasMatch() {
		result.Status = "error"
		result.Message = "No recognised export format in the first lines"
		result.Suggests = []string{
			"Only WhatsApp-style Android and iOS text exports are supported",
			"Use 'chatstat detect " + path + "' to inspect the sample",
		}
		return result
	}

	best := det.BestMatch()
	result.Message = fmt.Sprintf("%s, %.0f%% of sampled lines start a message", best.Name, best.Confidence*100)
	result.Status = "ok"

	switch det.DateOrder {
	case detector.Conflicting:
		result.Status = "warning"
		result.Details = []string{det.AmbiguityNote}
	case detector.Ambiguous:
		if opts.Verbose {
			result.Details = []string{det.AmbiguityNote}
		}
	default:
		if opts.Verbose {
			result.Details = []string{fmt.Sprintf("Date order: %s", det.DateOrder)}
		}
	}
	if opts.Verbose {
		result.Details = append(result.Details, "Sample: "+truncate(best.SampleLine, 80))
	}

	return result
}

func checkParse(ctx context.Context, path string, opts *DiagnoseOptions) []DiagnosticResult {
	parsed, err := parser.New().ParseFile(ctx, path)
	if err != nil {
		return []DiagnosticResult{{
			Check:   "Parse",
			Status:  "error",
			Message: fmt.Sprintf("Failed to parse export: %v", err),
		}}
	}
	stats := parsed.Stats

	results := []DiagnosticResult{}

	msgs := DiagnosticResult{Check: "Messages"}
	if stats.Messages == 0 {
		msgs.Status = "error"
		msgs.Message = "No messages recognised"
		msgs.Suggests = []string{"Use 'chatstat detect " + path + "' to check the export format"}
	} else {
		msgs.Status = "ok"
		msgs.Message = fmt.Sprintf("%d messages (%d system notifications) from %d lines",
			stats.Messages, stats.SystemMessages, stats.LinesRead)
		if opts.Verbose {
			msgs.Details = []string{
				fmt.Sprintf("Continuation lines: %d", stats.Continuations),
				fmt.Sprintf("Blank lines: %d", stats.BlankLines),
			}
		}
	}
	results = append(results, msgs)

	dropped := DiagnosticResult{Check: "Dropped Lines"}
	switch n := stats.OrphanLines + stats.RejectedLines; {
	case n == 0:
		dropped.Status = "ok"
		dropped.Message = "No lines dropped"
	case stats.Messages > 0 && n*10 < stats.Messages:
		dropped.Status = "warning"
		dropped.Message = fmt.Sprintf("%d line(s) dropped", n)
	default:
		dropped.Status = "error"
		dropped.Message = fmt.Sprintf("%d line(s) dropped", n)
		dropped.Suggests = []string{"The export may mix formats or have been edited by hand"}
	}
	if stats.OrphanLines > 0 {
		dropped.Details = append(dropped.Details,
			fmt.Sprintf("Text before the first message: %d line(s)", stats.OrphanLines))
	}
	if stats.RejectedLines > 0 {
		dropped.Details = append(dropped.Details,
			fmt.Sprintf("Headers with impossible dates: %d line(s)", stats.RejectedLines))
	}
	results = append(results, dropped)

	if stats.DateFallbacks > 0 {
		results = append(results, DiagnosticResult{
			Check:   "Date Order",
			Status:  "warning",
			Message: fmt.Sprintf("%d date(s) only parsed with day and month swapped", stats.DateFallbacks),
			Suggests: []string{
				"Check that the export was not produced on devices with different regional settings",
			},
		})
	}

	return results
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config File",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Store: %s", cfg.Store.Backend),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== chatstat Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nThe export is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nExport looks good!")
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	// URL and trigger were checked when the config loaded.
	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", name),
			Status:  "ok",
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}

		if wh.Token == "" && strings.Contains(wh.URL, "token") {
			result.Status = "warning"
			result.Details = append(result.Details, "URL looks like it embeds a token; prefer the token field")
		}
		if opts.Verbose {
			result.Details = append(result.Details,
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout))
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}
		results = append(results, result)

		if opts.Verbose {
			conn := checkWebhookConnectivity(wh)
			conn.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, conn)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// HEAD is enough to see whether the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST (will work during actual webhook send)",
			"Check authentication if using a token",
		}
	}

	return result
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
