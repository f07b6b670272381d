package analyzer

import (
	"sort"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// ComputeTimePatterns returns the hour-of-day, day-of-week and monthly
// message distributions. Hourly and daily always have 24 and 7 entries.
func ComputeTimePatterns(records []parser.MessageRecord) TimePatterns {
	patterns := TimePatterns{
		Hourly:  make([]HourCount, 24),
		Daily:   make([]DayCount, 7),
		Monthly: []MonthCount{},
	}
	for h := range patterns.Hourly {
		band := parser.MessageRecord{Timestamp: time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC)}.HourBand()
		patterns.Hourly[h] = HourCount{Hour: h, Band: band}
	}
	for d := range patterns.Daily {
		patterns.Daily[d] = DayCount{Day: d, Name: time.Weekday(d).String()}
	}

	months := make(map[string]*MonthCount)
	for _, r := range records {
		if r.Timestamp.IsZero() {
			continue
		}
		patterns.Hourly[r.Hour()].Count++
		patterns.Daily[int(r.Weekday())].Count++

		key := monthKey(r)
		mc, ok := months[key]
		if !ok {
			mc = &MonthCount{Year: r.Year(), Month: int(r.Month()), TimeUnit: key}
			months[key] = mc
		}
		mc.Count++
	}

	for _, mc := range months {
		patterns.Monthly = append(patterns.Monthly, *mc)
	}
	sort.Slice(patterns.Monthly, func(i, j int) bool {
		a, b := patterns.Monthly[i], patterns.Monthly[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return patterns
}
