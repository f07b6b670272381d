// Package output provides formatting and output generation for analysis results.
package output

import (
	"time"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// Report is the complete analysis output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Analysis holds the computed views.
	Analysis *analyzer.AnalysisResult `json:"analysis"`

	// Parse holds parse statistics when the export was parsed in this run.
	Parse *parser.Stats `json:"parse,omitempty"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Messages is the number of messages analysed.
	Messages int `json:"messages"`

	// Participants is the number of distinct non-system senders.
	Participants int `json:"participants"`

	// Conversations is the number of time-gap segmented conversations.
	Conversations int `json:"conversations"`

	// Words is the total word count.
	Words int `json:"words"`

	// DroppedLines counts lines the parser could not use.
	DroppedLines int `json:"dropped_lines"`

	// ViewsComputed is the number of analytics views in the report.
	ViewsComputed int `json:"views_computed"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// Source is the export file or data id that was analysed.
	Source string `json:"source"`

	// DataID is the store id the records were saved under, if any.
	DataID string `json:"data_id,omitempty"`

	// TimeRange is the time filter that was applied, if any.
	TimeRange *analyzer.TimeRange `json:"time_range,omitempty"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from analysis results. stats may be nil when
// records were loaded from a store.
func NewReport(result *analyzer.AnalysisResult, stats *parser.Stats, source string) *Report {
	report := &Report{
		Analysis: result,
		Parse:    stats,
		Metadata: Metadata{
			Source:     source,
			TimeRange:  result.Metadata.TimeRange,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
		Summary: Summary{
			Messages:      result.Metadata.RecordsAnalyzed,
			ViewsComputed: len(result.Metadata.Views),
		},
	}

	if b := result.BasicStats; b != nil {
		report.Summary.Participants = b.TotalUsers
		report.Summary.Words = b.TotalWords
	}
	if f := result.ConversationFlow; f != nil {
		report.Summary.Conversations = f.TotalConversations
	}
	if stats != nil {
		report.Summary.DroppedLines = stats.OrphanLines + stats.RejectedLines
	}

	return report
}

// HasData returns true if at least one message was analysed.
func (r *Report) HasData() bool {
	return r.Summary.Messages > 0
}
