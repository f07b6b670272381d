package analyzer

import (
	"strings"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// ComputeBasicStats summarises the chat as a whole.
//
// The first message skips system notifications and the encryption notice;
// the last message skips system notifications.
func ComputeBasicStats(records []parser.MessageRecord) BasicStats {
	var stats BasicStats
	users := make(map[string]struct{})

	for _, r := range records {
		stats.TotalMessages++
		stats.TotalWords += r.WordCount
		stats.TotalLinks += len(findLinks(r.Text))
		if isMedia(r.Text) {
			stats.TotalMediaOmitted++
		}
		if !r.IsSystem() {
			users[r.Sender] = struct{}{}
		}
	}
	stats.TotalUsers = len(users)

	for _, r := range records {
		if r.IsSystem() || strings.HasPrefix(r.Text, encryptionNotice) {
			continue
		}
		ts := r.Timestamp
		stats.FirstMessageDate = &ts
		stats.FirstMessageText = r.Text
		stats.FirstMessageSender = r.Sender
		break
	}

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.IsSystem() {
			continue
		}
		ts := r.Timestamp
		stats.LastMessageDate = &ts
		stats.LastMessageText = r.Text
		stats.LastMessageSender = r.Sender
		break
	}

	return stats
}
