package analyzer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// DefaultTopWords is used when ComputeWordUsage is called with topN <= 0.
const DefaultTopWords = 100

// ComputeWordUsage counts words across non-system, non-media messages.
// URLs are removed before tokenising; tokens of one character, purely
// numeric tokens and stop words are discarded. A nil stop-word set
// filters nothing.
func ComputeWordUsage(records []parser.MessageRecord, stopWords StopWords, topN int) WordUsage {
	if topN <= 0 {
		topN = DefaultTopWords
	}

	var order []string
	counts := make(map[string]int)
	total, withText := 0, 0

	for _, r := range records {
		if r.IsSystem() || isMedia(r.Text) {
			continue
		}
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		withText++

		text := linkPattern.ReplaceAllString(strings.ToLower(r.Text), " ")
		for _, w := range wordSeparator.Split(text, -1) {
			if utf8.RuneCountInString(w) <= 1 || numericWord.MatchString(w) || stopWords.Contains(w) {
				continue
			}
			if _, seen := counts[w]; !seen {
				order = append(order, w)
			}
			counts[w]++
			total++
		}
	}

	ranked := make([]WordCount, 0, len(order))
	for _, w := range order {
		ranked = append(ranked, WordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	usage := WordUsage{
		TotalWords:  total,
		UniqueWords: len(order),
		WordCounts:  ranked,
	}
	if withText > 0 {
		usage.AvgWordsPerMessage = round2(float64(total) / float64(withText))
	}
	return usage
}
