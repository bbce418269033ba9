// Package session tracks one in-progress booking across dialogue turns
package session

import (
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// BookingSession owns the record being assembled plus the confirmation
// flag. One session belongs to exactly one conversation; turns arrive
// strictly one at a time so no locking is needed.
type BookingSession struct {
	record               models.BookingRecord
	AwaitingConfirmation bool
}

// New returns a session with a blank record
func New() *BookingSession {
	return &BookingSession{record: models.NewBookingRecord()}
}

// MergeFrom applies extracted fields to the record under the given scope.
// A nil scope allows every field; fields outside the scope are skipped.
// Empty strings and zero capacity never overwrite collected values, so a
// partial extraction cannot erase progress. Merging the same partial twice
// leaves the record unchanged after the first application.
func (s *BookingSession) MergeFrom(partial models.PartialRecord, scope models.FieldScope) {
	if scope.Allows(models.FieldLibrary) && partial.PreferredLibrary != "" {
		s.record.PreferredLibrary = partial.PreferredLibrary
	}
	if scope.Allows(models.FieldDate) && partial.Date != "" {
		s.record.Date = partial.Date
	}
	if scope.Allows(models.FieldStartTime) && partial.StartTime != "" {
		s.record.StartTime = partial.StartTime
	}
	if scope.Allows(models.FieldEndTime) && partial.EndTime != "" {
		s.record.EndTime = partial.EndTime
	}
	if scope.Allows(models.FieldCapacity) && partial.MinCapacity > 0 {
		s.record.MinCapacity = partial.MinCapacity
	}
	if scope.Allows(models.FieldEventName) && partial.EventName != "" {
		s.record.EventName = partial.EventName
	}
}

// MissingFields returns user-facing descriptions of the required fields
// still unset, in the fixed prompt order
func (s *BookingSession) MissingFields() []string {
	var missing []string
	if s.record.PreferredLibrary == "" {
		missing = append(missing, "library (pick from the allowed list)")
	}
	if s.record.Date == "" {
		missing = append(missing, "date (DD/MM/YYYY)")
	}
	if s.record.StartTime == "" {
		missing = append(missing, "start time (HH:MM)")
	}
	if s.record.EndTime == "" {
		missing = append(missing, "end time (HH:MM)")
	}
	if s.record.MinCapacity == 0 {
		missing = append(missing, "capacity (integer)")
	}
	if s.record.EventName == "" {
		missing = append(missing, "event name")
	}
	return missing
}

// IsComplete reports whether every required field has been collected
func (s *BookingSession) IsComplete() bool {
	return len(s.MissingFields()) == 0
}

// Record returns a snapshot of the record as collected so far
func (s *BookingSession) Record() models.BookingRecord {
	return s.record
}

// FinalRecord returns the record snapshot for handoff to the submitter.
// Callers are expected to have checked IsComplete first.
func (s *BookingSession) FinalRecord() models.BookingRecord {
	final := s.record
	final.Space = models.SpaceLabel
	return final
}
