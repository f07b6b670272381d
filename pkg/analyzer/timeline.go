package analyzer

import (
	"fmt"
	"sort"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

func dayKey(r parser.MessageRecord) string   { return r.Timestamp.Format("2006-01-02") }
func monthKey(r parser.MessageRecord) string { return r.Timestamp.Format("2006-01") }
func yearKey(r parser.MessageRecord) string  { return r.Timestamp.Format("2006") }

// weekKey labels the ISO-8601 week (weeks start Monday, week 1 holds the
// year's first Thursday), e.g. "2023-W05".
func weekKey(r parser.MessageRecord) string {
	year, week := r.Timestamp.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// ComputeTimelineActivity counts messages per day, ISO week, month and year.
// All keys sort chronologically as strings.
func ComputeTimelineActivity(records []parser.MessageRecord) TimelineActivity {
	return TimelineActivity{
		Daily:   countBy(records, dayKey),
		Weekly:  countBy(records, weekKey),
		Monthly: countBy(records, monthKey),
		Yearly:  countBy(records, yearKey),
	}
}

func countBy(records []parser.MessageRecord, key func(parser.MessageRecord) string) []ActivityPoint {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Timestamp.IsZero() {
			continue
		}
		counts[key(r)]++
	}

	points := make([]ActivityPoint, 0, len(counts))
	for k, n := range counts {
		points = append(points, ActivityPoint{TimeUnit: k, MessageCount: n})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].TimeUnit < points[j].TimeUnit })
	return points
}

// ComputeUserComparisonTimeline counts messages per sender for each week,
// month and year. System notifications are excluded.
func ComputeUserComparisonTimeline(records []parser.MessageRecord) UserComparisonTimeline {
	return UserComparisonTimeline{
		Weekly:  countByUser(records, weekKey),
		Monthly: countByUser(records, monthKey),
		Yearly:  countByUser(records, yearKey),
	}
}

func countByUser(records []parser.MessageRecord, key func(parser.MessageRecord) string) []UserTimelinePoint {
	buckets := make(map[string]map[string]int)
	for _, r := range records {
		if r.IsSystem() || r.Timestamp.IsZero() {
			continue
		}
		k := key(r)
		if buckets[k] == nil {
			buckets[k] = make(map[string]int)
		}
		buckets[k][r.Sender]++
	}

	points := make([]UserTimelinePoint, 0, len(buckets))
	for k, users := range buckets {
		points = append(points, UserTimelinePoint{TimeUnit: k, UserMessages: users})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].TimeUnit < points[j].TimeUnit })
	return points
}
