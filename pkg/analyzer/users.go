package analyzer

import (
	"sort"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

const topUserEmojis = 5

type userAccumulator struct {
	stat       UserStat
	emojiOrder []string
	emojis     map[string]int
	days       map[string]time.Time
}

// ComputeUserStats returns statistics for every non-system sender in order
// of first appearance.
func ComputeUserStats(records []parser.MessageRecord) []UserStat {
	var order []string
	accs := make(map[string]*userAccumulator)

	for _, r := range records {
		if r.IsSystem() {
			continue
		}
		acc, ok := accs[r.Sender]
		if !ok {
			acc = &userAccumulator{
				stat:   UserStat{User: r.Sender},
				emojis: make(map[string]int),
				days:   make(map[string]time.Time),
			}
			accs[r.Sender] = acc
			order = append(order, r.Sender)
		}

		acc.stat.MessageCount++
		acc.stat.WordCount += r.WordCount
		acc.stat.LinksSharedCount += len(findLinks(r.Text))
		if isMedia(r.Text) {
			acc.stat.MediaSharedCount++
		}
		if isVoiceNote(r.Text) {
			acc.stat.VoiceNoteCount++
		}

		if r.WordCount > acc.stat.BiggestMessage.Length {
			acc.stat.BiggestMessage = BiggestMessage{Text: r.Text, Length: r.WordCount}
		}

		for _, e := range findEmojis(r.Text) {
			if _, seen := acc.emojis[e]; !seen {
				acc.emojiOrder = append(acc.emojiOrder, e)
			}
			acc.emojis[e]++
		}

		if !r.Timestamp.IsZero() {
			day := time.Date(r.Year(), r.Month(), r.Day(), 0, 0, 0, 0, time.UTC)
			acc.days[r.Date()] = day
		}
	}

	out := make([]UserStat, 0, len(order))
	for _, user := range order {
		acc := accs[user]
		acc.stat.AvgMessageLength = round2(float64(acc.stat.WordCount) / float64(acc.stat.MessageCount))
		acc.stat.MostUsedEmojis = rankEmojis(acc.emojiOrder, acc.emojis, topUserEmojis)
		acc.stat.LongestDailyStreak = longestStreak(acc.days)
		out = append(out, acc.stat)
	}
	return out
}

// rankEmojis orders emojis by descending count. Ties keep first-encounter
// order. limit <= 0 returns all.
func rankEmojis(order []string, counts map[string]int, limit int) []EmojiCount {
	ranked := make([]EmojiCount, 0, len(order))
	for _, e := range order {
		ranked = append(ranked, EmojiCount{Emoji: e, Count: counts[e]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// longestStreak finds the longest run of consecutive days. The earliest run
// wins ties.
func longestStreak(days map[string]time.Time) DailyStreak {
	if len(days) == 0 {
		return DailyStreak{}
	}

	sorted := make([]time.Time, 0, len(days))
	for _, d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	bestStart, bestEnd, best := sorted[0], sorted[0], 1
	curStart, cur := sorted[0], 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].AddDate(0, 0, 1).Equal(sorted[i]) {
			cur++
		} else {
			curStart, cur = sorted[i], 1
		}
		if cur > best {
			bestStart, bestEnd, best = curStart, sorted[i], cur
		}
	}

	start := bestStart.Format("2006-01-02")
	end := bestEnd.Format("2006-01-02")
	return DailyStreak{StartDate: &start, EndDate: &end, LengthDays: best}
}
