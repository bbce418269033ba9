// Package models defines the booking domain types shared across the agent
package models

import (
	"fmt"
	"time"
)

// SpaceLabel is the DiBS reservation template every booking uses
const SpaceLabel = "Book a Space in a Library"

// CanonicalLibraries is the fixed set of library names DiBS accepts.
// A BookingRecord only ever carries one of these values, never a nickname.
var CanonicalLibraries = []string{
	"FBE Building",
	"EASTERN RESOURCE CENTRE LIBRARY",
	"Baillieu Library",
	"Southbank The Hub",
	"Werribee Learning & Teaching Building",
}

// BookingRecord is the booking being assembled across dialogue turns.
// Date is DD/MM/YYYY and times are HH:MM 24-hour once set; empty string
// and zero capacity mean "not collected yet".
type BookingRecord struct {
	ID               string    `json:"id,omitempty"`
	Space            string    `json:"space"`
	PreferredLibrary string    `json:"preferred_library"`
	MinCapacity      int       `json:"min_capacity"`
	Date             string    `json:"date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	EventName        string    `json:"event_name"`
	ConfirmedAt      time.Time `json:"confirmed_at,omitempty"`
}

// NewBookingRecord returns a blank record with the space label preset
func NewBookingRecord() BookingRecord {
	return BookingRecord{Space: SpaceLabel}
}

// Summary returns a compact human-readable description of the booking
func (b BookingRecord) Summary() string {
	library := b.PreferredLibrary
	if library == "" {
		library = "<?>"
	}
	date := b.Date
	if date == "" {
		date = "<?>"
	}
	start := b.StartTime
	if start == "" {
		start = "<?>"
	}
	end := b.EndTime
	if end == "" {
		end = "<?>"
	}
	event := b.EventName
	if event == "" {
		event = "Booking"
	}
	return fmt.Sprintf("%s at %s on %s from %s-%s for %d people.",
		event, library, date, start, end, b.MinCapacity)
}

// PartialRecord holds best-effort extracted fields for a single utterance.
// Any field may be absent; absent fields are the zero value and never
// overwrite an already-collected value during a merge.
type PartialRecord struct {
	PreferredLibrary string `json:"preferred_library"`
	MinCapacity      int    `json:"min_capacity"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	EventName        string `json:"event_name"`
}
