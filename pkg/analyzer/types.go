// Package analyzer computes conversation analytics over parsed chat records.
package analyzer

import "time"

// View names one analytics computation.
type View string

const (
	ViewBasic            View = "basic"
	ViewUsers            View = "users"
	ViewTimeline         View = "timeline"
	ViewUserTimeline     View = "user_timeline"
	ViewWords            View = "words"
	ViewEmoji            View = "emoji"
	ViewTimePatterns     View = "time_patterns"
	ViewReplyTimes       View = "reply_times"
	ViewMessageTypes     View = "message_types"
	ViewLinks            View = "links"
	ViewConversationFlow View = "conversation_flow"
	ViewUserMessageTypes View = "user_message_types"
)

// AllViews returns every view in report order.
func AllViews() []View {
	return []View{
		ViewBasic,
		ViewUsers,
		ViewTimeline,
		ViewUserTimeline,
		ViewWords,
		ViewEmoji,
		ViewTimePatterns,
		ViewReplyTimes,
		ViewMessageTypes,
		ViewLinks,
		ViewConversationFlow,
		ViewUserMessageTypes,
	}
}

// ParseView converts a name to a View.
func ParseView(name string) (View, bool) {
	for _, v := range AllViews() {
		if string(v) == name {
			return v, true
		}
	}
	return "", false
}

// BasicStats summarises the whole chat.
type BasicStats struct {
	TotalMessages      int        `json:"total_messages"`
	TotalWords         int        `json:"total_words"`
	TotalUsers         int        `json:"total_users"`
	FirstMessageDate   *time.Time `json:"first_message_date"`
	LastMessageDate    *time.Time `json:"last_message_date"`
	FirstMessageText   string     `json:"first_message_text"`
	LastMessageText    string     `json:"last_message_text"`
	FirstMessageSender string     `json:"first_message_sender"`
	LastMessageSender  string     `json:"last_message_sender"`
	TotalLinks         int        `json:"total_links"`
	TotalMediaOmitted  int        `json:"total_media_omitted"`
}

// BiggestMessage is a user's longest message by word count. The earliest
// message wins ties.
type BiggestMessage struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}

// EmojiCount is one emoji and how often it was used.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// DailyStreak is a run of consecutive calendar days with activity.
// Dates are YYYY-MM-DD and nil when the user has no activity.
type DailyStreak struct {
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	LengthDays int     `json:"length_days"`
}

// UserStat holds per-sender statistics.
type UserStat struct {
	User               string         `json:"user"`
	MessageCount       int            `json:"message_count"`
	WordCount          int            `json:"word_count"`
	AvgMessageLength   float64        `json:"avg_message_length"`
	LinksSharedCount   int            `json:"links_shared_count"`
	MediaSharedCount   int            `json:"media_shared_count"`
	VoiceNoteCount     int            `json:"voice_note_count"`
	BiggestMessage     BiggestMessage `json:"biggest_message"`
	MostUsedEmojis     []EmojiCount   `json:"most_used_emojis"`
	LongestDailyStreak DailyStreak    `json:"longest_daily_streak"`
}

// ActivityPoint is a message count for one time bucket.
type ActivityPoint struct {
	TimeUnit     string `json:"time_unit"`
	MessageCount int    `json:"message_count"`
}

// TimelineActivity holds message counts bucketed at four granularities.
type TimelineActivity struct {
	Daily   []ActivityPoint `json:"daily"`
	Weekly  []ActivityPoint `json:"weekly"`
	Monthly []ActivityPoint `json:"monthly"`
	Yearly  []ActivityPoint `json:"yearly"`
}

// UserTimelinePoint is a per-sender breakdown for one time bucket.
type UserTimelinePoint struct {
	TimeUnit     string         `json:"time_unit"`
	UserMessages map[string]int `json:"user_messages"`
}

// UserComparisonTimeline compares senders over time.
type UserComparisonTimeline struct {
	Weekly  []UserTimelinePoint `json:"weekly"`
	Monthly []UserTimelinePoint `json:"monthly"`
	Yearly  []UserTimelinePoint `json:"yearly"`
}

// WordCount is one word and its frequency.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// WordUsage summarises vocabulary.
type WordUsage struct {
	TotalWords         int         `json:"total_words"`
	UniqueWords        int         `json:"unique_words"`
	AvgWordsPerMessage float64     `json:"avg_words_per_message"`
	WordCounts         []WordCount `json:"word_counts"`
}

// EmojiUsage lists emoji frequencies across the chat.
type EmojiUsage struct {
	TotalEmojis  int          `json:"total_emojis"`
	UniqueEmojis int          `json:"unique_emojis"`
	EmojiCounts  []EmojiCount `json:"emoji_counts"`
}

// HourCount is the message count for one hour of the day.
type HourCount struct {
	Hour  int    `json:"hour"`
	Band  string `json:"band"`
	Count int    `json:"count"`
}

// DayCount is the message count for one day of the week (Sunday = 0).
type DayCount struct {
	Day   int    `json:"day"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthCount is the message count for one calendar month.
type MonthCount struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	TimeUnit string `json:"time_unit"`
	Count    int    `json:"count"`
}

// TimePatterns holds hour-of-day, day-of-week and monthly distributions.
type TimePatterns struct {
	Hourly  []HourCount  `json:"hourly"`
	Daily   []DayCount   `json:"daily"`
	Monthly []MonthCount `json:"monthly"`
}

// UserReplyTimeStat describes how quickly a sender replies.
type UserReplyTimeStat struct {
	User                string  `json:"user"`
	AverageReplySeconds float64 `json:"average_reply_seconds"`
	TotalReplySeconds   float64 `json:"total_reply_seconds"`
	ReplyCount          int     `json:"reply_count"`
}

// MessageTypeCounts counts messages per media keyword bucket. Buckets are
// independent; a message may be counted in more than one.
type MessageTypeCounts struct {
	Sticker  int `json:"sticker"`
	Image    int `json:"image"`
	Video    int `json:"video"`
	Document int `json:"document"`
	Audio    int `json:"audio"`
	Media    int `json:"media"`
}

// SharedLink is one URL found in a message.
type SharedLink struct {
	URL       string    `json:"url"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// SharedLinks lists every URL in file order.
type SharedLinks struct {
	Links []SharedLink `json:"links"`
}

// ConversationStat describes one time-gap segmented conversation.
type ConversationStat struct {
	ConversationID int       `json:"conversation_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Duration       float64   `json:"duration"`
	MessageCount   int       `json:"message_count"`
	Participants   int       `json:"participants"`
	MessageDensity float64   `json:"message_density"`
}

// UserCount pairs a sender with a count.
type UserCount struct {
	User  string `json:"user"`
	Count int    `json:"count"`
}

// ConversationFlow summarises conversation segmentation.
type ConversationFlow struct {
	TotalConversations   int                `json:"total_conversations"`
	ConversationStats    []ConversationStat `json:"conversation_stats"`
	ConversationStarters []UserCount        `json:"conversation_starters"`
	ConversationEnders   []UserCount        `json:"conversation_enders"`
}

// UserMessageTypeBreakdown classifies each of a sender's messages into
// exactly one category.
type UserMessageTypeBreakdown struct {
	User     string `json:"user"`
	Sticker  int    `json:"sticker"`
	Media    int    `json:"media"`
	Document int    `json:"document"`
	Message  int    `json:"message"`
}
