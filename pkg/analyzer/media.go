package analyzer

import "github.com/ccollicutt/chatstat/pkg/parser"

// ComputeMessageTypeCounts counts non-system messages per attachment
// keyword. A sticker placeholder also counts as media.
func ComputeMessageTypeCounts(records []parser.MessageRecord) MessageTypeCounts {
	var c MessageTypeCounts
	for _, r := range records {
		if r.IsSystem() {
			continue
		}
		if containsAny(r.Text, stickerKeywords) {
			c.Sticker++
		}
		if containsAny(r.Text, imageKeywords) {
			c.Image++
		}
		if containsAny(r.Text, videoKeywords) {
			c.Video++
		}
		if containsAny(r.Text, documentKeywords) {
			c.Document++
		}
		if containsAny(r.Text, audioKeywords) {
			c.Audio++
		}
		if isMedia(r.Text) {
			c.Media++
		}
	}
	return c
}

var breakdownMediaKeywords = concat(genericKeywords, imageKeywords, videoKeywords, audioKeywords)

// ComputeUserMessageTypeBreakdown puts each non-system message into exactly
// one category, checked in the order sticker, media, document, message.
// Senders are listed in order of first appearance.
func ComputeUserMessageTypeBreakdown(records []parser.MessageRecord) []UserMessageTypeBreakdown {
	var order []string
	byUser := make(map[string]*UserMessageTypeBreakdown)

	for _, r := range records {
		if r.IsSystem() {
			continue
		}
		b, ok := byUser[r.Sender]
		if !ok {
			b = &UserMessageTypeBreakdown{User: r.Sender}
			byUser[r.Sender] = b
			order = append(order, r.Sender)
		}

		switch {
		case containsAny(r.Text, stickerKeywords):
			b.Sticker++
		case containsAny(r.Text, breakdownMediaKeywords):
			b.Media++
		case containsAny(r.Text, documentKeywords):
			b.Document++
		default:
			b.Message++
		}
	}

	out := make([]UserMessageTypeBreakdown, 0, len(order))
	for _, user := range order {
		out = append(out, *byUser[user])
	}
	return out
}

// ComputeSharedLinks extracts every URL in file order.
func ComputeSharedLinks(records []parser.MessageRecord) SharedLinks {
	links := SharedLinks{Links: []SharedLink{}}
	for _, r := range records {
		for _, url := range findLinks(r.Text) {
			links.Links = append(links.Links, SharedLink{
				URL:       url,
				Sender:    r.Sender,
				Timestamp: r.Timestamp,
			})
		}
	}
	return links
}
