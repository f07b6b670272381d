package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var meridiemPattern = regexp.MustCompile(`(?i)\s*([ap]m)$`)

// ResolveTimestamp parses a date token and a time token using the ordering
// implied by hint. When the primary day/month ordering does not produce a
// valid date, the swapped ordering is tried. The boolean result reports
// whether the swapped ordering was used.
//
// The returned time carries no zone information and is stored in UTC.
func ResolveTimestamp(dateTok, timeTok string, hint FormatHint) (time.Time, bool, error) {
	dateTok = strings.TrimSpace(dateTok)
	timeTok = normalizeTime(timeTok)
	value := dateTok + " " + timeTok

	primary := layoutFor(dateTok, hint, hint.DayFirst())
	ts, err := time.Parse(primary, value)
	if err == nil {
		return ts, false, nil
	}

	swapped := layoutFor(dateTok, hint, !hint.DayFirst())
	ts, swapErr := time.Parse(swapped, value)
	if swapErr == nil {
		return ts, true, nil
	}

	return time.Time{}, false, fmt.Errorf("parsing timestamp %q as %s: %w", value, hint, err)
}

// normalizeTime collapses whitespace and writes the meridiem as " AM"/" PM".
func normalizeTime(tok string) string {
	tok = strings.Join(strings.Fields(tok), " ")
	return meridiemPattern.ReplaceAllStringFunc(tok, func(m string) string {
		return " " + strings.ToUpper(strings.TrimSpace(m))
	})
}

// layoutFor builds the Go layout matching the shape of the tokens.
// Single-digit days, months and hours are accepted by the non-padded verbs.
func layoutFor(dateTok string, hint FormatHint, dayFirst bool) string {
	year := "06"
	if i := strings.LastIndex(dateTok, "/"); i >= 0 && len(dateTok)-i-1 == 4 {
		year = "2006"
	}

	date := "1/2/" + year
	if dayFirst {
		date = "2/1/" + year
	}

	var clock string
	switch {
	case hint.TwelveHour() && hint.HasSeconds():
		clock = "3:04:05 PM"
	case hint.TwelveHour():
		clock = "3:04 PM"
	case hint.HasSeconds():
		clock = "15:04:05"
	default:
		clock = "15:04"
	}

	return date + " " + clock
}
