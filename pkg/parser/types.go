// Package parser reconstructs structured chat messages from exported chat logs.
package parser

import (
	"fmt"
	"time"
)

// SystemSender is the sender assigned to system notifications
// (group changes, encryption notices, etc).
const SystemSender = "group_notification"

// ConversationGap is the silence after which a new conversation cluster starts.
const ConversationGap = 300 * time.Second

// MessageRecord is one reconstructed chat message.
type MessageRecord struct {
	// Timestamp is the naive local time of the message, stored in UTC location.
	Timestamp time.Time `json:"timestamp"`

	// Sender is the display name, or SystemSender for notifications.
	Sender string `json:"sender"`

	// Text is the message body. Continuation lines are joined with "\n".
	Text string `json:"text"`

	// WordCount is the number of whitespace-delimited tokens in Text.
	WordCount int `json:"word_count"`

	// ConversationID is the 1-based cluster the message belongs to.
	ConversationID int `json:"conversation_id"`

	// ConversationChanged is true for the first message of each cluster.
	ConversationChanged bool `json:"conversation_changed"`

	// IsReply is true when the sender changed inside the same cluster.
	IsReply bool `json:"is_reply"`

	// SenderChanged is true when the sender differs from the previous record.
	SenderChanged bool `json:"sender_changed"`

	// ReplyLatencySeconds is the gap to the previous record when IsReply.
	ReplyLatencySeconds float64 `json:"reply_latency_seconds"`

	// ReplyTimeMinutes is the same gap expressed in minutes.
	ReplyTimeMinutes float64 `json:"reply_time_minutes"`

	// InterClusterGapMinutes is the silence preceding a new cluster.
	InterClusterGapMinutes float64 `json:"inter_cluster_gap_minutes"`
}

// IsSystem reports whether the record is a system notification.
func (m MessageRecord) IsSystem() bool {
	return m.Sender == SystemSender
}

// Date returns the calendar day as YYYY-MM-DD.
func (m MessageRecord) Date() string { return m.Timestamp.Format("2006-01-02") }

func (m MessageRecord) Year() int { return m.Timestamp.Year() }

func (m MessageRecord) Month() time.Month { return m.Timestamp.Month() }

func (m MessageRecord) Day() int { return m.Timestamp.Day() }

func (m MessageRecord) Hour() int { return m.Timestamp.Hour() }

func (m MessageRecord) Minute() int { return m.Timestamp.Minute() }

// Weekday returns the day of week, Sunday = 0.
func (m MessageRecord) Weekday() time.Weekday { return m.Timestamp.Weekday() }

func (m MessageRecord) MonthName() string { return m.Timestamp.Month().String() }

func (m MessageRecord) DayName() string { return m.Timestamp.Weekday().String() }

// HourBand labels the hour-long window the message falls in,
// e.g. "9-10", "23-00" and "00-1".
func (m MessageRecord) HourBand() string {
	h := m.Timestamp.Hour()
	switch h {
	case 23:
		return "23-00"
	case 0:
		return "00-1"
	default:
		return fmt.Sprintf("%d-%d", h, h+1)
	}
}

// Stats summarises what happened while parsing an export.
type Stats struct {
	LinesRead      int                `json:"lines_read"`
	BlankLines     int                `json:"blank_lines"`
	Messages       int                `json:"messages"`
	SystemMessages int                `json:"system_messages"`
	Continuations  int                `json:"continuations"`
	OrphanLines    int                `json:"orphan_lines"`
	DateFallbacks  int                `json:"date_fallbacks"`
	RejectedLines  int                `json:"rejected_lines"`
	Formats        map[FormatHint]int `json:"formats"`
}

// Result holds the parsed records together with parse statistics.
type Result struct {
	Records []MessageRecord `json:"records"`
	Stats   Stats           `json:"stats"`
}

// DominantFormat returns the hint that matched the most lines, or "" when
// nothing matched.
func (s Stats) DominantFormat() FormatHint {
	var best FormatHint
	bestCount := 0
	for _, f := range Formats() {
		if n := s.Formats[f.Hint]; n > bestCount {
			best, bestCount = f.Hint, n
		}
	}
	return best
}
