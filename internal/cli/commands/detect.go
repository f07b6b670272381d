package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <export-file>",
		Short: "Detect the export format of a chat file",
		Long: `Sample lines from a chat export and report which export format it uses.

Reports the detected format with a confidence score and whether dates are
written day-first (DD/MM) or month-first (MM/DD).

Optionally writes a starter config file with --write-config.

Supports:
  - Android exports, 12-hour and 24-hour clocks
  - iOS exports, 12-hour and 24-hour clocks

Example:
  chatstat detect WhatsApp-Chat.txt
  chatstat detect --sample 500 WhatsApp-Chat.txt
  chatstat detect -w chatstat.yaml WhatsApp-Chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	exportFile := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	if _, err := os.Stat(exportFile); os.IsNotExist(err) {
		return fmt.Errorf("export file not found: %s", exportFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, exportFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, result, exportFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, result, exportFile, opts)
	default:
		return outputDetectText(w, result, exportFile, opts)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, exportFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Export Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", exportFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines starting a message: %d\n", result.ParsedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No export format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: Only WhatsApp-style Android and iOS text exports are recognised.")
		fmt.Fprintln(w, "Check that the file was exported without media and is not a zip archive.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Format: %s (%s)\n", best.Name, best.Hint)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched, %d system notifications)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines, best.SystemCount)
	fmt.Fprintf(w, "Date order: %s\n", result.DateOrder)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)

	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "Note: %s\n", result.AmbiguityNote)
		fmt.Fprintln(w)
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Other formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Name, m.Confidence*100)
			fmt.Fprintf(w, "   sample: %s\n", m.SampleLine)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Name        string  `json:"name"`
	Hint        string  `json:"hint"`
	Confidence  float64 `json:"confidence"`
	MatchCount  int     `json:"match_count"`
	SystemCount int     `json:"system_count"`
	SampleLine  string  `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File          string      `json:"file"`
	Matches       []JSONMatch `json:"matches"`
	SampledLines  int         `json:"sampled_lines"`
	ParsedLines   int         `json:"parsed_lines"`
	DateOrder     string      `json:"date_order,omitempty"`
	AmbiguityNote string      `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, exportFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:          exportFile,
		SampledLines:  result.SampledLines,
		ParsedLines:   result.ParsedLines,
		DateOrder:     string(result.DateOrder),
		AmbiguityNote: result.AmbiguityNote,
		Matches:       make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:        m.Name,
			Hint:        string(m.Hint),
			Confidence:  m.Confidence,
			MatchCount:  m.MatchCount,
			SystemCount: m.SystemCount,
			SampleLine:  m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file for the detected export.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, exportFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no export format detected")
	}

	content, err := generateStarterConfig(exportFile, result)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig renders the default configuration as YAML under a
// header describing the detected export.
func generateStarterConfig(exportFile string, result *detector.DetectionResult) ([]byte, error) {
	absExport := exportFile
	if abs, err := filepath.Abs(exportFile); err == nil {
		absExport = abs
	}

	body, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}

	best := result.BestMatch()
	header := fmt.Sprintf(`# chatstat configuration
# Generated by: chatstat detect
# Export: %s
# Detected format: %s (%.0f%% confidence), dates %s
#
# Run: chatstat --config <this file> analyze %s

`, absExport, best.Name, best.Confidence*100, result.DateOrder, absExport)

	return append([]byte(header), body...), nil
}
