package parser

import (
	"regexp"
	"strings"
)

// FormatHint identifies the export flavour a line was recognised as.
type FormatHint string

const (
	Android12 FormatHint = "android12"
	Android24 FormatHint = "android24"
	IOS12     FormatHint = "ios12"
	IOS24     FormatHint = "ios24"
)

// DayFirst reports whether the hint's primary date ordering is DD/MM.
func (h FormatHint) DayFirst() bool {
	return h == IOS12 || h == IOS24
}

// HasSeconds reports whether the hint's time token carries seconds.
func (h FormatHint) HasSeconds() bool {
	return h == IOS12 || h == IOS24
}

// TwelveHour reports whether the hint's time token uses AM/PM.
func (h FormatHint) TwelveHour() bool {
	return h == Android12 || h == IOS12
}

// ExportFormat is one recognisable line shape.
type ExportFormat struct {
	Name       string         // Human-readable name
	Hint       FormatHint     // Date/time shape of the line
	System     bool           // True if the shape carries no sender
	Pattern    *regexp.Regexp // Compiled regex
	PatternStr string         // Pattern string
	Example    string         // Example line
}

const (
	datePart   = `(\d{1,2}/\d{1,2}/\d{2,4})`
	android12T = `(\d{1,2}:\d{2}\s*(?:am|pm|AM|PM))`
	android24T = `(\d{1,2}:\d{2})`
	ios12T     = `(\d{1,2}:\d{2}:\d{2}\s*(?:AM|PM))`
	ios24T     = `(\d{1,2}:\d{2}:\d{2})`
	senderPart = `([^:]+?):\s*`
	bodyPart   = `(.*)$`
)

// formats is ordered by priority: all sender shapes before any system shape.
var formats = []*ExportFormat{
	{
		Name:       "Android 12-hour",
		Hint:       Android12,
		PatternStr: `^` + datePart + `,\s*` + android12T + `\s*-\s*` + senderPart + bodyPart,
		Example:    "12/1/23, 9:00 AM - Alice: Hello",
	},
	{
		Name:       "Android 24-hour",
		Hint:       Android24,
		PatternStr: `^` + datePart + `,\s*` + android24T + `\s*-\s*` + senderPart + bodyPart,
		Example:    "12/1/23, 21:00 - Alice: Hello",
	},
	{
		Name:       "iOS 12-hour",
		Hint:       IOS12,
		PatternStr: `^\[` + datePart + `,\s*` + ios12T + `\]\s*` + senderPart + bodyPart,
		Example:    "[01/12/23, 9:00:00 AM] Alice: Hello",
	},
	{
		Name:       "iOS 24-hour",
		Hint:       IOS24,
		PatternStr: `^\[` + datePart + `,\s*` + ios24T + `\]\s*` + senderPart + bodyPart,
		Example:    "[01/12/23, 21:00:00] Alice: Hello",
	},
	{
		Name:       "Android 12-hour system",
		Hint:       Android12,
		System:     true,
		PatternStr: `^` + datePart + `,\s*` + android12T + `\s*-\s*` + bodyPart,
		Example:    "12/1/23, 9:00 AM - Alice created group \"Trip\"",
	},
	{
		Name:       "Android 24-hour system",
		Hint:       Android24,
		System:     true,
		PatternStr: `^` + datePart + `,\s*` + android24T + `\s*-\s*` + bodyPart,
		Example:    "12/1/23, 21:00 - Alice added Bob",
	},
	{
		Name:       "iOS 12-hour system",
		Hint:       IOS12,
		System:     true,
		PatternStr: `^\[` + datePart + `,\s*` + ios12T + `\]\s*` + bodyPart,
		Example:    "[01/12/23, 9:00:00 AM] Alice left",
	},
	{
		Name:       "iOS 24-hour system",
		Hint:       IOS24,
		System:     true,
		PatternStr: `^\[` + datePart + `,\s*` + ios24T + `\]\s*` + bodyPart,
		Example:    "[01/12/23, 21:00:00] Alice left",
	},
}

func init() {
	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}
}

// Formats returns the recognised line shapes in priority order.
func Formats() []*ExportFormat {
	return formats
}

// LineMatch is a line recognised as the start of a message.
type LineMatch struct {
	Format *ExportFormat
	Date   string
	Time   string
	Sender string
	Text   string
}

// Classify matches a cleansed line against the format table.
// It returns nil when the line is not the start of a message.
func Classify(line string) *LineMatch {
	for _, f := range formats {
		m := f.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if f.System {
			return &LineMatch{
				Format: f,
				Date:   m[1],
				Time:   m[2],
				Sender: SystemSender,
				Text:   strings.TrimSpace(m[3]),
			}
		}
		return &LineMatch{
			Format: f,
			Date:   m[1],
			Time:   m[2],
			Sender: strings.TrimSpace(m[3]),
			Text:   strings.TrimSpace(m[4]),
		}
	}
	return nil
}

var cleanser = strings.NewReplacer(
	"\u200e", "",
	"\u200f", "",
	"\u202a", "",
	"\u202b", "",
	"\u202c", "",
	"\u202d", "",
	"\u202e", "",
	"\ufeff", "",
	"\u202f", " ",
)

// CleanLine removes directional formatting marks, normalises narrow no-break
// spaces and drops a trailing carriage return.
func CleanLine(line string) string {
	return cleanser.Replace(strings.TrimSuffix(line, "\r"))
}
