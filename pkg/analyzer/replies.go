package analyzer

import (
	"sort"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// ComputeReplyTimeStats measures, for each sender, the time between the
// previous message from someone else and their reply. Pairs involving a
// system notification, an invalid timestamp or a negative gap are skipped.
// Results are ordered fastest first.
func ComputeReplyTimeStats(records []parser.MessageRecord) []UserReplyTimeStat {
	var order []string
	stats := make(map[string]*UserReplyTimeStat)

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if prev.Sender == cur.Sender || prev.IsSystem() || cur.IsSystem() {
			continue
		}
		if prev.Timestamp.IsZero() || cur.Timestamp.IsZero() {
			continue
		}
		elapsed := cur.Timestamp.Sub(prev.Timestamp).Seconds()
		if elapsed < 0 {
			continue
		}

		s, ok := stats[cur.Sender]
		if !ok {
			s = &UserReplyTimeStat{User: cur.Sender}
			stats[cur.Sender] = s
			order = append(order, cur.Sender)
		}
		s.TotalReplySeconds += elapsed
		s.ReplyCount++
	}

	out := make([]UserReplyTimeStat, 0, len(order))
	for _, user := range order {
		s := stats[user]
		s.AverageReplySeconds = round2(s.TotalReplySeconds / float64(s.ReplyCount))
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AverageReplySeconds < out[j].AverageReplySeconds
	})
	return out
}
