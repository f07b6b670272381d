package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
)

// rowLimit caps list sections unless verbose output is requested.
const rowLimit = 10

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "chatstat: %s messages, %s participants, %s conversations\n",
		count(report.Summary.Messages),
		count(report.Summary.Participants),
		count(report.Summary.Conversations))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Chat Analysis Report ===")
	if report.Metadata.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", report.Metadata.Source)
	}
	if report.Metadata.DataID != "" {
		fmt.Fprintf(w, "Data ID: %s\n", report.Metadata.DataID)
	}
	fmt.Fprintln(w)

	a := report.Analysis
	if a != nil {
		f.formatBasic(a.BasicStats, w)
		f.formatUsers(a.UserStats, w)
		f.formatTimeline(a.TimelineActivity, w)
		f.formatUserTimeline(a.UserComparisonTimeline, w)
		f.formatWords(a.WordUsage, w)
		f.formatEmoji(a.EmojiUsage, w)
		f.formatTimePatterns(a.TimePatterns, w)
		f.formatReplyTimes(a.ReplyTimeStats, w)
		f.formatMessageTypes(a.MessageTypeCounts, a.UserMessageTypeBreakdown, w)
		f.formatLinks(a.SharedLinks, w)
		f.formatConversations(a.ConversationFlow, w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %s messages, %s participants, %s conversations, %s words\n",
		count(report.Summary.Messages),
		count(report.Summary.Participants),
		count(report.Summary.Conversations),
		count(report.Summary.Words))

	if f.opts.Verbose {
		if p := report.Parse; p != nil {
			fmt.Fprintf(w, "Lines read: %s (blank %s, continuations %s, dropped %s, date fallbacks %s)\n",
				count(p.LinesRead), count(p.BlankLines), count(p.Continuations),
				count(p.OrphanLines+p.RejectedLines), count(p.DateFallbacks))
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	return nil
}

func (f *TextFormatter) limit(n int) int {
	if f.opts.Verbose || n < rowLimit {
		return n
	}
	return rowLimit
}

func (f *TextFormatter) formatBasic(b *analyzer.BasicStats, w io.Writer) {
	if b == nil {
		return
	}
	fmt.Fprintln(w, "[BASIC]")
	fmt.Fprintf(w, "  Messages: %s  Words: %s  Users: %s\n",
		count(b.TotalMessages), count(b.TotalWords), count(b.TotalUsers))
	fmt.Fprintf(w, "  Links: %s  Media omitted: %s\n", count(b.TotalLinks), count(b.TotalMediaOmitted))
	if b.FirstMessageDate != nil {
		fmt.Fprintf(w, "  First: %s %s: %s\n", b.FirstMessageDate.Format("2006-01-02 15:04"),
			b.FirstMessageSender, oneLine(b.FirstMessageText))
	}
	if b.LastMessageDate != nil {
		fmt.Fprintf(w, "  Last:  %s %s: %s\n", b.LastMessageDate.Format("2006-01-02 15:04"),
			b.LastMessageSender, oneLine(b.LastMessageText))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatUsers(users []analyzer.UserStat, w io.Writer) {
	if users == nil {
		return
	}
	fmt.Fprintln(w, "[USERS]")
	for _, u := range users[:f.limit(len(users))] {
		fmt.Fprintf(w, "  %s: %s messages, %s words, avg %.2f words/message, %s links, %s media, %s voice notes\n",
			u.User, count(u.MessageCount), count(u.WordCount), u.AvgMessageLength,
			count(u.LinksSharedCount), count(u.MediaSharedCount), count(u.VoiceNoteCount))
		if s := u.LongestDailyStreak; s.StartDate != nil {
			fmt.Fprintf(w, "    Longest streak: %d days (%s to %s)\n", s.LengthDays, *s.StartDate, *s.EndDate)
		}
		if len(u.MostUsedEmojis) > 0 {
			parts := make([]string, 0, len(u.MostUsedEmojis))
			for _, e := range u.MostUsedEmojis {
				parts = append(parts, fmt.Sprintf("%s x%d", e.Emoji, e.Count))
			}
			fmt.Fprintf(w, "    Emojis: %s\n", strings.Join(parts, ", "))
		}
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatTimeline(t *analyzer.TimelineActivity, w io.Writer) {
	if t == nil {
		return
	}
	fmt.Fprintln(w, "[TIMELINE]")
	fmt.Fprintf(w, "  %d active days, %d weeks, %d months, %d years\n",
		len(t.Daily), len(t.Weekly), len(t.Monthly), len(t.Yearly))
	for _, p := range t.Monthly[:f.limit(len(t.Monthly))] {
		fmt.Fprintf(w, "  %s: %s\n", p.TimeUnit, count(p.MessageCount))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatUserTimeline(t *analyzer.UserComparisonTimeline, w io.Writer) {
	if t == nil || !f.opts.Verbose {
		return
	}
	fmt.Fprintln(w, "[USER TIMELINE]")
	for _, p := range t.Monthly {
		fmt.Fprintf(w, "  %s: %v\n", p.TimeUnit, p.UserMessages)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatWords(u *analyzer.WordUsage, w io.Writer) {
	if u == nil {
		return
	}
	fmt.Fprintln(w, "[WORDS]")
	fmt.Fprintf(w, "  %s words, %s unique, %.2f per message\n",
		count(u.TotalWords), count(u.UniqueWords), u.AvgWordsPerMessage)
	for _, wc := range u.WordCounts[:f.limit(len(u.WordCounts))] {
		fmt.Fprintf(w, "  %-20s %s\n", wc.Word, count(wc.Count))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatEmoji(e *analyzer.EmojiUsage, w io.Writer) {
	if e == nil {
		return
	}
	fmt.Fprintln(w, "[EMOJI]")
	fmt.Fprintf(w, "  %s emojis, %s unique\n", count(e.TotalEmojis), count(e.UniqueEmojis))
	for _, ec := range e.EmojiCounts[:f.limit(len(e.EmojiCounts))] {
		fmt.Fprintf(w, "  %s %s\n", ec.Emoji, count(ec.Count))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatTimePatterns(p *analyzer.TimePatterns, w io.Writer) {
	if p == nil {
		return
	}
	fmt.Fprintln(w, "[TIME PATTERNS]")
	busiest := p.Hourly[0]
	for _, h := range p.Hourly {
		if h.Count > busiest.Count {
			busiest = h
		}
	}
	fmt.Fprintf(w, "  Busiest hour: %s (%s messages)\n", busiest.Band, count(busiest.Count))
	for _, d := range p.Daily {
		fmt.Fprintf(w, "  %-9s %s\n", d.Name, count(d.Count))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatReplyTimes(stats []analyzer.UserReplyTimeStat, w io.Writer) {
	if stats == nil {
		return
	}
	fmt.Fprintln(w, "[REPLY TIMES]")
	for _, s := range stats[:f.limit(len(stats))] {
		fmt.Fprintf(w, "  %s: avg %.0fs over %s replies\n", s.User, s.AverageReplySeconds, count(s.ReplyCount))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatMessageTypes(c *analyzer.MessageTypeCounts, users []analyzer.UserMessageTypeBreakdown, w io.Writer) {
	if c == nil && users == nil {
		return
	}
	fmt.Fprintln(w, "[MESSAGE TYPES]")
	if c != nil {
		fmt.Fprintf(w, "  Stickers: %s  Images: %s  Videos: %s  Documents: %s  Audio: %s  Media: %s\n",
			count(c.Sticker), count(c.Image), count(c.Video), count(c.Document), count(c.Audio), count(c.Media))
	}
	for _, u := range users[:f.limit(len(users))] {
		fmt.Fprintf(w, "  %s: %s text, %s media, %s stickers, %s documents\n",
			u.User, count(u.Message), count(u.Media), count(u.Sticker), count(u.Document))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatLinks(l *analyzer.SharedLinks, w io.Writer) {
	if l == nil {
		return
	}
	fmt.Fprintln(w, "[LINKS]")
	fmt.Fprintf(w, "  %s shared\n", count(len(l.Links)))
	for _, link := range l.Links[:f.limit(len(l.Links))] {
		fmt.Fprintf(w, "  %s %s: %s\n", link.Timestamp.Format("2006-01-02"), link.Sender, link.URL)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatConversations(c *analyzer.ConversationFlow, w io.Writer) {
	if c == nil {
		return
	}
	fmt.Fprintln(w, "[CONVERSATIONS]")
	fmt.Fprintf(w, "  %s conversations\n", count(c.TotalConversations))
	if len(c.ConversationStarters) > 0 {
		top := c.ConversationStarters[0]
		fmt.Fprintf(w, "  Most starts: %s (%s)\n", top.User, count(top.Count))
	}
	if len(c.ConversationEnders) > 0 {
		top := c.ConversationEnders[0]
		fmt.Fprintf(w, "  Most ends: %s (%s)\n", top.User, count(top.Count))
	}
	if f.opts.Verbose {
		for _, s := range c.ConversationStats {
			fmt.Fprintf(w, "  #%d %s: %d messages, %.2f min, %d participants\n",
				s.ConversationID, s.StartTime.Format("2006-01-02 15:04"),
				s.MessageCount, s.Duration, s.Participants)
		}
	}
	fmt.Fprintln(w)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}
