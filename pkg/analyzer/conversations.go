package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// DefaultConversationGap separates conversations in ComputeConversationFlow
// when no gap is given.
const DefaultConversationGap = 60 * time.Minute

// conversation collects the records of one segment.
type conversation struct {
	records []parser.MessageRecord
}

// ComputeConversationFlow sorts records by time and starts a new
// conversation whenever the gap between consecutive messages exceeds gap.
// This segmentation is independent of the ConversationID assigned by the
// parser. A gap <= 0 uses DefaultConversationGap.
func ComputeConversationFlow(records []parser.MessageRecord, gap time.Duration) ConversationFlow {
	if gap <= 0 {
		gap = DefaultConversationGap
	}

	flow := ConversationFlow{
		ConversationStats:    []ConversationStat{},
		ConversationStarters: []UserCount{},
		ConversationEnders:   []UserCount{},
	}

	sorted := make([]parser.MessageRecord, 0, len(records))
	for _, r := range records {
		if !r.Timestamp.IsZero() {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var convs []conversation
	for i, r := range sorted {
		if i == 0 || r.Timestamp.Sub(sorted[i-1].Timestamp) > gap {
			convs = append(convs, conversation{})
		}
		last := &convs[len(convs)-1]
		last.records = append(last.records, r)
	}

	starters := newUserCounter()
	enders := newUserCounter()

	for i, c := range convs {
		first, last := c.records[0], c.records[len(c.records)-1]
		duration := round2(last.Timestamp.Sub(first.Timestamp).Minutes())

		participants := make(map[string]struct{})
		for _, r := range c.records {
			if !r.IsSystem() {
				participants[r.Sender] = struct{}{}
			}
		}

		divisor := duration
		if divisor == 0 {
			divisor = 1
		}

		flow.ConversationStats = append(flow.ConversationStats, ConversationStat{
			ConversationID: i + 1,
			StartTime:      first.Timestamp,
			EndTime:        last.Timestamp,
			Duration:       duration,
			MessageCount:   len(c.records),
			Participants:   len(participants),
			MessageDensity: round2(float64(len(c.records)) / divisor),
		})

		if !first.IsSystem() {
			starters.add(first.Sender)
		}
		if !last.IsSystem() {
			enders.add(last.Sender)
		}
	}

	flow.TotalConversations = len(convs)
	flow.ConversationStarters = starters.ranked()
	flow.ConversationEnders = enders.ranked()
	return flow
}

// userCounter counts per sender and remembers first-seen order.
type userCounter struct {
	order  []string
	counts map[string]int
}

func newUserCounter() *userCounter {
	return &userCounter{counts: make(map[string]int)}
}

func (c *userCounter) add(user string) {
	if _, ok := c.counts[user]; !ok {
		c.order = append(c.order, user)
	}
	c.counts[user]++
}

// ranked returns counts in descending order; ties keep first-seen order.
func (c *userCounter) ranked() []UserCount {
	out := make([]UserCount, 0, len(c.order))
	for _, u := range c.order {
		out = append(out, UserCount{User: u, Count: c.counts[u]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
