package session_test

import (
	"testing"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/session"
	"github.com/stretchr/testify/assert"
)

func completePartial() models.PartialRecord {
	return models.PartialRecord{
		PreferredLibrary: "Baillieu Library",
		MinCapacity:      5,
		Date:             "14/12/2026",
		StartTime:        "14:00",
		EndTime:          "16:00",
		EventName:        "Test 6",
	}
}

func TestMergeFromUnrestricted(t *testing.T) {
	s := session.New()
	s.MergeFrom(completePartial(), nil)

	record := s.Record()
	assert.Equal(t, "Baillieu Library", record.PreferredLibrary)
	assert.Equal(t, "14/12/2026", record.Date)
	assert.Equal(t, "14:00", record.StartTime)
	assert.Equal(t, "16:00", record.EndTime)
	assert.Equal(t, 5, record.MinCapacity)
	assert.Equal(t, "Test 6", record.EventName)
	assert.Equal(t, models.SpaceLabel, record.Space)
}

func TestMergeFromNeverErases(t *testing.T) {
	s := session.New()
	s.MergeFrom(completePartial(), nil)

	// A later extraction that only recognised the date must not blank
	// anything else
	s.MergeFrom(models.PartialRecord{Date: "20/12/2026"}, nil)

	record := s.Record()
	assert.Equal(t, "20/12/2026", record.Date)
	assert.Equal(t, "Baillieu Library", record.PreferredLibrary)
	assert.Equal(t, 5, record.MinCapacity)
	assert.Equal(t, "Test 6", record.EventName)
}

func TestMergeFromIdempotent(t *testing.T) {
	scopes := map[string]models.FieldScope{
		"NilScope":       nil,
		"DateOnly":       models.NewFieldScope(models.FieldDate),
		"TimePair":       models.NewFieldScope(models.FieldStartTime, models.FieldEndTime),
		"EmptyScope":     models.NewFieldScope(),
		"EverythingElse": models.NewFieldScope(models.FieldLibrary, models.FieldCapacity, models.FieldEventName),
	}

	for name, scope := range scopes {
		t.Run(name, func(t *testing.T) {
			once := session.New()
			once.MergeFrom(completePartial(), scope)

			twice := session.New()
			twice.MergeFrom(completePartial(), scope)
			twice.MergeFrom(completePartial(), scope)

			assert.Equal(t, once.Record(), twice.Record())
		})
	}
}

func TestMergeFromScoped(t *testing.T) {
	s := session.New()
	s.MergeFrom(completePartial(), nil)

	// Scope limited to the date: every other incoming value is ignored
	update := models.PartialRecord{
		PreferredLibrary: "FBE Building",
		Date:             "20/12/2026",
		MinCapacity:      99,
		EventName:        "Hijack",
	}
	s.MergeFrom(update, models.NewFieldScope(models.FieldDate))

	record := s.Record()
	assert.Equal(t, "20/12/2026", record.Date)
	assert.Equal(t, "Baillieu Library", record.PreferredLibrary)
	assert.Equal(t, 5, record.MinCapacity)
	assert.Equal(t, "Test 6", record.EventName)
}

func TestMergeFromEmptyScopeIsNoOp(t *testing.T) {
	s := session.New()
	s.MergeFrom(completePartial(), nil)
	before := s.Record()

	s.MergeFrom(models.PartialRecord{Date: "25/12/2026", EventName: "Other"}, models.NewFieldScope())

	assert.Equal(t, before, s.Record())
}

func TestMissingFieldsOrderAndCompleteness(t *testing.T) {
	s := session.New()
	assert.False(t, s.IsComplete())
	assert.Equal(t, []string{
		"library (pick from the allowed list)",
		"date (DD/MM/YYYY)",
		"start time (HH:MM)",
		"end time (HH:MM)",
		"capacity (integer)",
		"event name",
	}, s.MissingFields())

	s.MergeFrom(models.PartialRecord{Date: "14/12/2026", StartTime: "14:00"}, nil)
	assert.Equal(t, []string{
		"library (pick from the allowed list)",
		"end time (HH:MM)",
		"capacity (integer)",
		"event name",
	}, s.MissingFields())
	assert.False(t, s.IsComplete())

	s.MergeFrom(completePartial(), nil)
	assert.Empty(t, s.MissingFields())
	assert.True(t, s.IsComplete())
}

func TestIsCompleteMatchesMissingFields(t *testing.T) {
	partials := []models.PartialRecord{
		{},
		{Date: "14/12/2026"},
		{PreferredLibrary: "Baillieu Library", StartTime: "10:00"},
		completePartial(),
	}

	for _, partial := range partials {
		s := session.New()
		s.MergeFrom(partial, nil)
		assert.Equal(t, len(s.MissingFields()) == 0, s.IsComplete())
	}
}

func TestFinalRecordSnapshot(t *testing.T) {
	s := session.New()
	s.MergeFrom(completePartial(), nil)

	final := s.FinalRecord()
	assert.Equal(t, models.SpaceLabel, final.Space)

	// Mutating the session afterwards must not affect the snapshot
	s.MergeFrom(models.PartialRecord{EventName: "Renamed"}, nil)
	assert.Equal(t, "Test 6", final.EventName)
}
