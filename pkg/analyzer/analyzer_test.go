package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

func rec(ts time.Time, sender, text string) parser.MessageRecord {
	return parser.MessageRecord{Timestamp: ts, Sender: sender, Text: text, WordCount: len(strings.Fields(text))}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2023, 12, day, hour, minute, 0, 0, time.UTC)
}

func TestNew_UnknownView(t *testing.T) {
	_, err := New(WithViews([]View{"nope"}))
	if !errors.Is(err, ErrUnknownView) {
		t.Errorf("New() error = %v, want ErrUnknownView", err)
	}
}

func TestAnalyzer_AllViews(t *testing.T) {
	records := parser.Parse("12/1/23, 9:00 AM - Alice: Hello https://example.com\n12/1/23, 9:01 AM - Bob: <Media omitted>")

	a, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := a.Analyze(context.Background(), records)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if result.BasicStats == nil || result.TimelineActivity == nil || result.WordUsage == nil ||
		result.EmojiUsage == nil || result.TimePatterns == nil || result.MessageTypeCounts == nil ||
		result.SharedLinks == nil || result.ConversationFlow == nil || result.UserComparisonTimeline == nil {
		t.Fatalf("missing view in result: %+v", result)
	}
	if result.BasicStats.TotalLinks != 1 || result.BasicStats.TotalMediaOmitted != 1 {
		t.Errorf("BasicStats = %+v", result.BasicStats)
	}
	if len(result.UserStats) != 2 {
		t.Errorf("UserStats = %d entries, want 2", len(result.UserStats))
	}
	if result.Metadata.RecordsAnalyzed != 2 {
		t.Errorf("RecordsAnalyzed = %d, want 2", result.Metadata.RecordsAnalyzed)
	}
	if len(result.Metadata.Views) != len(AllViews()) {
		t.Errorf("Views = %v", result.Metadata.Views)
	}
}

func TestAnalyzer_ViewSubset(t *testing.T) {
	records := []parser.MessageRecord{rec(at(1, 9, 0), "Alice", "hi")}

	a, err := New(WithViews([]View{ViewBasic}))
	if err != nil {
		t.Fatal(err)
	}
	result, err := a.Analyze(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	if result.BasicStats == nil {
		t.Error("BasicStats not computed")
	}
	if result.WordUsage != nil || result.ConversationFlow != nil {
		t.Error("unselected views were computed")
	}
}

func TestAnalyzer_TimeRange(t *testing.T) {
	records := []parser.MessageRecord{
		rec(at(1, 9, 0), "Alice", "early"),
		rec(at(2, 9, 0), "Bob", "middle"),
		rec(at(3, 9, 0), "Alice", "late"),
	}

	a, err := New(WithTimeRange(at(2, 0, 0), at(2, 23, 59)), WithViews([]View{ViewBasic}))
	if err != nil {
		t.Fatal(err)
	}
	result, err := a.Analyze(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	if result.BasicStats.TotalMessages != 1 || result.BasicStats.FirstMessageText != "middle" {
		t.Errorf("BasicStats = %+v", result.BasicStats)
	}
}

func TestAnalyzer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Analyze(ctx, nil); err != context.Canceled {
		t.Errorf("Analyze() error = %v, want context.Canceled", err)
	}
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatal(err)
	}
	result, err := a.Analyze(context.Background(), []parser.MessageRecord{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.BasicStats.TotalMessages != 0 || result.BasicStats.FirstMessageDate != nil {
		t.Errorf("BasicStats = %+v", result.BasicStats)
	}
	if result.ConversationFlow.TotalConversations != 0 {
		t.Errorf("TotalConversations = %d", result.ConversationFlow.TotalConversations)
	}
	if len(result.TimePatterns.Hourly) != 24 || len(result.TimePatterns.Daily) != 7 {
		t.Errorf("TimePatterns shape = %d/%d", len(result.TimePatterns.Hourly), len(result.TimePatterns.Daily))
	}
}

func TestAnalyzer_DoesNotModifyRecords(t *testing.T) {
	records := []parser.MessageRecord{
		rec(at(1, 10, 0), "Bob", "second"),
		rec(at(1, 9, 0), "Alice", "first"),
	}

	a, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Analyze(context.Background(), records); err != nil {
		t.Fatal(err)
	}
	if records[0].Sender != "Bob" {
		t.Error("Analyze() reordered caller's records")
	}
}
