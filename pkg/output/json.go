package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// JSONFormatter formats reports as indented JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// quietReport is the reduced document written in quiet mode.
type quietReport struct {
	Summary Summary       `json:"summary"`
	Source  string        `json:"source"`
	DataID  string        `json:"data_id,omitempty"`
	Parse   *parser.Stats `json:"parse,omitempty"`
}

// Format renders the report as JSON. Quiet mode drops the analysis views
// but keeps the summary, the source and any parse statistics.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if f.opts.Quiet {
		return encoder.Encode(quietReport{
			Summary: report.Summary,
			Source:  report.Metadata.Source,
			DataID:  report.Metadata.DataID,
			Parse:   report.Parse,
		})
	}

	return encoder.Encode(report)
}
