package detector

import (
	"strconv"
	"strings"
)

// DateOrder is the inferred day/month ordering of an export.
type DateOrder string

const (
	MonthFirst  DateOrder = "month_first"
	DayFirst    DateOrder = "day_first"
	Ambiguous   DateOrder = "ambiguous"
	Conflicting DateOrder = "conflicting"
)

// orderVotes tallies date tokens that can only be read one way.
type orderVotes struct {
	dayFirst   int
	monthFirst int
}

// add inspects a D/M/Y or M/D/Y token. A first field above 12 can only be a
// day; a second field above 12 can only be a day in month-first order.
func (v *orderVotes) add(dateTok string) {
	parts := strings.Split(dateTok, "/")
	if len(parts) != 3 {
		return
	}
	first, err1 := strconv.Atoi(parts[0])
	second, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return
	}
	switch {
	case first > 12 && second <= 12:
		v.dayFirst++
	case second > 12 && first <= 12:
		v.monthFirst++
	}
}

func (v orderVotes) result() (DateOrder, string) {
	switch {
	case v.dayFirst > 0 && v.monthFirst > 0:
		return Conflicting, "Dates were seen in both DD/MM and MM/DD order. " +
			"The parser falls back to the swapped order per line, so some dates may be misread."
	case v.dayFirst > 0:
		return DayFirst, ""
	case v.monthFirst > 0:
		return MonthFirst, ""
	default:
		return Ambiguous, "No sampled date has a field above 12, so DD/MM and MM/DD cannot be told apart. " +
			"Android exports are read month-first and iOS exports day-first."
	}
}
