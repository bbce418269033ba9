// Package normalize maps raw extracted booking values to canonical forms.
// Every function is total: unparseable input yields the unset sentinel
// (empty string or zero) instead of an error, because the dialogue layer
// re-prompts for anything still missing.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// DateLayout is the canonical booking date format expected by DiBS
const DateLayout = "02/01/2006"

// TimeLayout is the canonical booking time format expected by DiBS
const TimeLayout = "15:04"

// melbourne is the fixed reference zone for all relative date reasoning
var melbourne = mustLoadLocation("Australia/Melbourne")

// timeNow is overridable in tests so relative dates are deterministic
var timeNow = func() time.Time {
	return time.Now().In(melbourne)
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// libraryAliases maps loose nicknames to canonical library names. Order
// matters: earlier entries win when several keys appear in the input.
var libraryAliases = []struct {
	key       string
	canonical string
}{
	{"fbe", "FBE Building"},
	{"business and economics", "FBE Building"},
	{"erc", "EASTERN RESOURCE CENTRE LIBRARY"},
	{"eastern resource center", "EASTERN RESOURCE CENTRE LIBRARY"},
	{"baillieu", "Baillieu Library"},
	{"southbank", "Southbank The Hub"},
	{"the hub", "Southbank The Hub"},
	{"werribee", "Werribee Learning & Teaching Building"},
	{"learning and teaching building", "Werribee Learning & Teaching Building"},
}

// Library maps a raw library mention to one of the canonical names, or ""
// when the input matches nothing. Exact (case-insensitive) names are tried
// before nickname containment.
func Library(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	for _, canonical := range models.CanonicalLibraries {
		if value == strings.ToLower(canonical) {
			return canonical
		}
	}
	for _, alias := range libraryAliases {
		if strings.Contains(value, alias.key) {
			return alias.canonical
		}
	}
	return ""
}

var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// yearedDateLayouts are tried first; they carry an explicit year
var yearedDateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02/01/06",
	"2 Jan 2006",
	"2 January 2006",
}

// dayMonthLayouts have no year; the current year is assumed and a date
// already in the past rolls over to next year
var dayMonthLayouts = []string{
	"02/01",
	"02-01",
	"2 Jan",
	"2 January",
}

// Date maps a raw date phrase to DD/MM/YYYY, or "" when nothing parses.
// Relative weekday phrases resolve against Melbourne time and never
// produce today's date.
func Date(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if relative, ok := relativeWeekday(trimmed); ok {
		return relative.Format(DateLayout)
	}

	for _, layout := range yearedDateLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, melbourne); err == nil {
			return parsed.Format(DateLayout)
		}
	}

	today := timeNow()
	todayMidnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, melbourne)
	for _, layout := range dayMonthLayouts {
		parsed, err := time.ParseInLocation(layout, trimmed, melbourne)
		if err != nil {
			continue
		}
		candidate := time.Date(today.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, melbourne)
		// Already-passed day/month rolls over to next year
		if candidate.Before(todayMidnight) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		return candidate.Format(DateLayout)
	}

	return ""
}

// relativeWeekday resolves phrases like "next Thursday" to the next future
// occurrence of that weekday. A "next week" modifier skips one extra week.
func relativeWeekday(raw string) (time.Time, bool) {
	lowered := strings.ToLower(raw)

	var target time.Weekday
	found := false
	for _, wd := range weekdays {
		if strings.Contains(lowered, wd.name) {
			target = wd.day
			found = true
			break
		}
	}
	if !found {
		return time.Time{}, false
	}

	today := timeNow()
	base := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, melbourne)
	if strings.Contains(lowered, "next week") {
		base = base.AddDate(0, 0, 7)
	}

	daysAhead := (int(target) - int(base.Weekday()) + 7) % 7
	if daysAhead == 0 {
		// Today (or the same weekday a week out) is never offered; book ahead.
		daysAhead = 7
	}
	return base.AddDate(0, 0, daysAhead), true
}

// timeLayouts are tried in order; 24-hour forms first, then 12-hour
var timeLayouts = []string{
	"15:04",
	"1504",
	"3:04pm",
	"3:04 pm",
	"3pm",
	"3 pm",
}

// Time maps a raw time string to HH:MM 24-hour, or "" when nothing parses
func Time(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// Go's reference layouts want lowercase meridiems
	lowered := strings.ToLower(trimmed)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, lowered); err == nil {
			return parsed.Format(TimeLayout)
		}
	}
	return ""
}

// Capacity maps a raw capacity value to a non-negative integer. The
// extractor hands through whatever JSON type the model produced, so
// numeric and string forms are both accepted; anything else is 0.
func Capacity(raw any) int {
	switch v := raw.(type) {
	case int:
		return clampCapacity(v)
	case float64:
		return clampCapacity(int(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return clampCapacity(n)
	default:
		return 0
	}
}

func clampCapacity(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
