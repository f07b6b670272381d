package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// ErrUnknownView is returned when a view name is not recognised.
var ErrUnknownView = errors.New("unknown view")

// Analyzer runs a selection of analytics views over parsed records.
type Analyzer struct {
	logger    *zap.Logger
	gap       time.Duration
	topWords  int
	stopWords StopWords
	timeRange *TimeRange
	views     []View
}

// TimeRange limits analysis to records within [Start, End].
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range. Zero bounds are open.
func (r *TimeRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithConversationGap sets the silence that separates conversations in the
// conversation flow view.
func WithConversationGap(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		if d > 0 {
			a.gap = d
		}
	}
}

// WithTopWords limits the word usage view to the n most frequent words.
func WithTopWords(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.topWords = n
		}
	}
}

// WithStopWords replaces the default stop-word list.
func WithStopWords(sw StopWords) AnalyzerOption {
	return func(a *Analyzer) {
		if sw != nil {
			a.stopWords = sw
		}
	}
}

// WithTimeRange limits analysis to records within the given time range.
func WithTimeRange(start, end time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		a.timeRange = &TimeRange{Start: start, End: end}
	}
}

// WithViews limits analysis to the given views.
func WithViews(views []View) AnalyzerOption {
	return func(a *Analyzer) {
		if len(views) > 0 {
			a.views = views
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Analyzer. It fails only when an unknown view is requested.
func New(opts ...AnalyzerOption) (*Analyzer, error) {
	a := &Analyzer{
		logger:    zap.NewNop(),
		gap:       DefaultConversationGap,
		topWords:  DefaultTopWords,
		stopWords: DefaultStopWords(),
		views:     AllViews(),
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, v := range a.views {
		if _, ok := ParseView(string(v)); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownView, v)
		}
	}
	return a, nil
}

// AnalysisResult holds every computed view. Views that were not selected
// are nil.
type AnalysisResult struct {
	BasicStats               *BasicStats                `json:"basic_stats,omitempty"`
	UserStats                []UserStat                 `json:"user_stats,omitempty"`
	TimelineActivity         *TimelineActivity          `json:"timeline_activity,omitempty"`
	UserComparisonTimeline   *UserComparisonTimeline    `json:"user_comparison_timeline,omitempty"`
	WordUsage                *WordUsage                 `json:"word_usage,omitempty"`
	EmojiUsage               *EmojiUsage                `json:"emoji_usage,omitempty"`
	TimePatterns             *TimePatterns              `json:"time_patterns,omitempty"`
	ReplyTimeStats           []UserReplyTimeStat        `json:"reply_time_stats,omitempty"`
	MessageTypeCounts        *MessageTypeCounts         `json:"message_type_counts,omitempty"`
	SharedLinks              *SharedLinks               `json:"shared_links,omitempty"`
	ConversationFlow         *ConversationFlow          `json:"conversation_flow,omitempty"`
	UserMessageTypeBreakdown []UserMessageTypeBreakdown `json:"user_message_type_breakdown,omitempty"`

	Metadata AnalysisMetadata `json:"metadata"`
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	// Views lists the views that were computed.
	Views []View `json:"views"`

	// TimeRange is the time filter applied, if any.
	TimeRange *TimeRange `json:"time_range,omitempty"`

	// StartTime is when analysis began.
	StartTime time.Time `json:"start_time"`

	// EndTime is when analysis completed.
	EndTime time.Time `json:"end_time"`

	// RecordsAnalyzed is the number of records left after filtering.
	RecordsAnalyzed int `json:"records_analyzed"`
}

// Analyze computes the selected views. It returns an error only when ctx
// is cancelled; records are never modified.
func (a *Analyzer) Analyze(ctx context.Context, records []parser.MessageRecord) (*AnalysisResult, error) {
	result := &AnalysisResult{
		Metadata: AnalysisMetadata{
			Views:     a.views,
			TimeRange: a.timeRange,
			StartTime: time.Now(),
		},
	}

	if a.timeRange != nil {
		filtered := make([]parser.MessageRecord, 0, len(records))
		for _, r := range records {
			if a.timeRange.Contains(r.Timestamp) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	result.Metadata.RecordsAnalyzed = len(records)

	for _, v := range a.views {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := time.Now()
		a.compute(v, records, result)
		a.logger.Debug("computed view",
			zap.String("view", string(v)),
			zap.Int("records", len(records)),
			zap.Duration("took", time.Since(start)))
	}

	result.Metadata.EndTime = time.Now()
	return result, nil
}

func (a *Analyzer) compute(v View, records []parser.MessageRecord, result *AnalysisResult) {
	switch v {
	case ViewBasic:
		s := ComputeBasicStats(records)
		result.BasicStats = &s
	case ViewUsers:
		result.UserStats = ComputeUserStats(records)
	case ViewTimeline:
		t := ComputeTimelineActivity(records)
		result.TimelineActivity = &t
	case ViewUserTimeline:
		t := ComputeUserComparisonTimeline(records)
		result.UserComparisonTimeline = &t
	case ViewWords:
		w := ComputeWordUsage(records, a.stopWords, a.topWords)
		result.WordUsage = &w
	case ViewEmoji:
		e := ComputeEmojiUsage(records)
		result.EmojiUsage = &e
	case ViewTimePatterns:
		p := ComputeTimePatterns(records)
		result.TimePatterns = &p
	case ViewReplyTimes:
		result.ReplyTimeStats = ComputeReplyTimeStats(records)
	case ViewMessageTypes:
		c := ComputeMessageTypeCounts(records)
		result.MessageTypeCounts = &c
	case ViewLinks:
		l := ComputeSharedLinks(records)
		result.SharedLinks = &l
	case ViewConversationFlow:
		f := ComputeConversationFlow(records, a.gap)
		result.ConversationFlow = &f
	case ViewUserMessageTypes:
		result.UserMessageTypeBreakdown = ComputeUserMessageTypeBreakdown(records)
	}
}
