package parser

import (
	"math"
	"strings"

	"go.uber.org/zap"
)

// builder accumulates records line by line. At most one record is open at a
// time; it is committed to out when the next message boundary is seen.
type builder struct {
	logger *zap.Logger
	open   *MessageRecord
	out    []MessageRecord
	stats  Stats
	line   int
}

func newBuilder(logger *zap.Logger) *builder {
	return &builder{
		logger: logger,
		out:    []MessageRecord{},
		stats:  Stats{Formats: make(map[FormatHint]int)},
	}
}

func (b *builder) add(raw string) {
	b.line++
	b.stats.LinesRead++

	line := CleanLine(raw)
	if strings.TrimSpace(line) == "" {
		b.stats.BlankLines++
		return
	}

	m := Classify(line)
	if m == nil {
		b.appendContinuation(line)
		return
	}

	ts, swapped, err := ResolveTimestamp(m.Date, m.Time, m.Format.Hint)
	if err != nil {
		b.stats.RejectedLines++
		b.logger.Warn("dropping line with unparseable date",
			zap.Int("line", b.line),
			zap.String("date", m.Date),
			zap.String("time", m.Time),
			zap.String("format", string(m.Format.Hint)),
			zap.Error(err))
		return
	}
	if swapped {
		b.stats.DateFallbacks++
		b.logger.Debug("date parsed with swapped day/month order",
			zap.Int("line", b.line),
			zap.String("date", m.Date),
			zap.String("format", string(m.Format.Hint)))
	}

	b.commit()
	b.stats.Formats[m.Format.Hint]++
	if m.Format.System {
		b.stats.SystemMessages++
	}
	b.open = &MessageRecord{
		Timestamp: ts,
		Sender:    m.Sender,
		Text:      m.Text,
		WordCount: len(strings.Fields(m.Text)),
	}
}

func (b *builder) appendContinuation(line string) {
	if b.open == nil {
		b.stats.OrphanLines++
		b.logger.Warn("dropping continuation line before first message",
			zap.Int("line", b.line))
		return
	}
	b.stats.Continuations++
	b.open.Text += "\n" + strings.TrimSpace(line)
	b.open.WordCount = len(strings.Fields(b.open.Text))
}

func (b *builder) commit() {
	if b.open != nil {
		b.out = append(b.out, *b.open)
		b.open = nil
	}
}

func (b *builder) finish() *Result {
	b.commit()
	b.stats.Messages = len(b.out)
	assignConversations(b.out, b.logger)
	return &Result{Records: b.out, Stats: b.stats}
}

// assignConversations fills the derived fields of each record in place.
// A silence longer than ConversationGap starts a new cluster.
func assignConversations(records []MessageRecord, logger *zap.Logger) {
	conversation := 1
	limit := ConversationGap.Seconds()

	for i := range records {
		rec := &records[i]
		if i == 0 {
			rec.ConversationID = conversation
			rec.ConversationChanged = true
			continue
		}

		prev := records[i-1]
		rec.SenderChanged = rec.Sender != prev.Sender

		var gap float64
		if rec.Timestamp.IsZero() || prev.Timestamp.IsZero() {
			logger.Warn("invalid timestamp while clustering, treating gap as zero",
				zap.Int("index", i))
		} else {
			gap = rec.Timestamp.Sub(prev.Timestamp).Seconds()
		}

		if gap > limit {
			conversation++
			rec.ConversationChanged = true
			rec.InterClusterGapMinutes = round2(gap / 60)
		}
		rec.ConversationID = conversation

		rec.IsReply = rec.SenderChanged && rec.Sender != SystemSender && !rec.ConversationChanged
		if rec.IsReply {
			rec.ReplyLatencySeconds = round2(gap)
			rec.ReplyTimeMinutes = round2(gap / 60)
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
