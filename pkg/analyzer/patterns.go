package analyzer

import (
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

// Keywords that WhatsApp substitutes for attachments left out of an export.
var (
	stickerKeywords  = []string{"sticker omitted"}
	imageKeywords    = []string{"image omitted"}
	videoKeywords    = []string{"video omitted", "GIF omitted"}
	documentKeywords = []string{"document omitted"}
	audioKeywords    = []string{"audio omitted"}
	genericKeywords  = []string{"<Media omitted>"}

	mediaKeywords = concat(genericKeywords, imageKeywords, videoKeywords,
		stickerKeywords, audioKeywords, documentKeywords)
)

// encryptionNotice opens the boilerplate WhatsApp inserts at the top of
// every export.
const encryptionNotice = "Messages and calls are end-to-end encrypted"

var (
	linkPattern = regexp.MustCompile(`(?i)(?:https?://|www\.)[^\s/$.?#].[^\s]*`)

	// wordSeparator splits on anything that is not an ASCII letter, a digit
	// or an extended Latin letter.
	wordSeparator = regexp.MustCompile(`[^a-z0-9\x{00C0}-\x{024F}]+`)
	numericWord   = regexp.MustCompile(`^[0-9]+$`)
)

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func isMedia(text string) bool { return containsAny(text, mediaKeywords) }

// isVoiceNote reports an omitted audio placeholder. Every voice note is also
// media.
func isVoiceNote(text string) bool { return containsAny(text, audioKeywords) }

func findLinks(text string) []string {
	return linkPattern.FindAllString(text, -1)
}

// findEmojis returns every emoji grapheme cluster in text. Multi-rune
// sequences (skin tones, ZWJ families, flags) count as one emoji.
func findEmojis(text string) []string {
	var out []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		if len(runes) > 0 && isEmojiRune(runes[0]) {
			out = append(out, gr.Str())
		}
	}
	return out
}

func isEmojiRune(r rune) bool {
	switch {
	case r == 0x00A9, r == 0x00AE: // © ®
		return true
	case r == 0x203C, r == 0x2049, r == 0x2122, r == 0x2139:
		return true
	case r >= 0x2194 && r <= 0x21AA:
		return true
	case r >= 0x231A && r <= 0x23FF:
		return true
	case r >= 0x25AA && r <= 0x27BF:
		return true
	case r >= 0x2934 && r <= 0x2935, r >= 0x2B05 && r <= 0x2B55:
		return true
	case r == 0x3030, r == 0x303D, r == 0x3297, r == 0x3299:
		return true
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	}
	return false
}
