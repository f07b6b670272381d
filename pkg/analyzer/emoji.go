package analyzer

import "github.com/ccollicutt/chatstat/pkg/parser"

// ComputeEmojiUsage counts emoji across all non-system messages, most used
// first.
func ComputeEmojiUsage(records []parser.MessageRecord) EmojiUsage {
	var order []string
	counts := make(map[string]int)
	total := 0

	for _, r := range records {
		if r.IsSystem() {
			continue
		}
		for _, e := range findEmojis(r.Text) {
			if _, seen := counts[e]; !seen {
				order = append(order, e)
			}
			counts[e]++
			total++
		}
	}

	return EmojiUsage{
		TotalEmojis:  total,
		UniqueEmojis: len(order),
		EmojiCounts:  rankEmojis(order, counts, 0),
	}
}
