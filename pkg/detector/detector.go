// Package detector identifies which chat export format a file uses.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// DefaultSampleSize is the number of non-blank lines inspected.
const DefaultSampleSize = 100

// DetectionResult holds the result of analysing an export.
type DetectionResult struct {
	Matches       []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines  int           // Number of non-blank lines sampled
	ParsedLines   int           // Number of lines that started a message in the best format
	DateOrder     DateOrder     // Inferred day/month ordering
	AmbiguityNote string        // Warning about date ordering if applicable
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Hint        parser.FormatHint
	Name        string
	Confidence  float64   // 0.0 to 1.0 (share of sampled lines matched)
	MatchCount  int       // Number of lines that matched
	SystemCount int       // Matches that were system notifications
	SampleLine  string    // Example line that matched
	ParsedTime  time.Time // Parsed timestamp from sample
	priority    int
}

// Detector samples export lines and classifies them against the parser's
// format table.
type Detector struct {
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector.
func New(opts ...Option) *Detector {
	d := &Detector{sampleSize: DefaultSampleSize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyses the head of an export file.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyses a slice of export lines. Blank lines are ignored
// and at most the configured sample size is inspected.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}
	stats := make(map[parser.FormatHint]*FormatMatch)
	var votes orderVotes

	for _, raw := range lines {
		if result.SampledLines >= d.sampleSize {
			break
		}
		line := strings.TrimSpace(parser.CleanLine(raw))
		if line == "" {
			continue
		}
		result.SampledLines++

		m := parser.Classify(line)
		if m == nil {
			continue
		}
		ts, _, err := parser.ResolveTimestamp(m.Date, m.Time, m.Format.Hint)
		if err != nil {
			continue
		}
		votes.add(m.Date)

		fm := stats[m.Format.Hint]
		if fm == nil {
			fm = &FormatMatch{
				Hint:       m.Format.Hint,
				Name:       hintName(m.Format.Hint),
				SampleLine: line,
				ParsedTime: ts,
				priority:   priorityOf(m.Format.Hint),
			}
			stats[m.Format.Hint] = fm
		}
		fm.MatchCount++
		if m.Format.System {
			fm.SystemCount++
		}
	}

	if result.SampledLines == 0 {
		return result
	}

	for _, fm := range stats {
		fm.Confidence = float64(fm.MatchCount) / float64(result.SampledLines)
		result.Matches = append(result.Matches, *fm)
	}

	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return result.Matches[i].priority < result.Matches[j].priority
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
		result.DateOrder, result.AmbiguityNote = votes.result()
	}

	return result
}

// hintName is the name of the sender shape for a hint, without the
// system suffix.
func hintName(h parser.FormatHint) string {
	for _, f := range parser.Formats() {
		if f.Hint == h && !f.System {
			return f.Name
		}
	}
	return string(h)
}

func priorityOf(h parser.FormatHint) int {
	for i, f := range parser.Formats() {
		if f.Hint == h {
			return i
		}
	}
	return len(parser.Formats())
}

// sampleFile reads up to sampleSize non-blank lines from a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	file, err := os.Open(path) // #nosec G304 -- path is provided by user via CLI
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for len(lines) < d.sampleSize && scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(parser.CleanLine(line)) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
