package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/repository/memory"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/service"
)

// recordingSubmitter captures submitted records and optionally fails
type recordingSubmitter struct {
	submitted []models.BookingRecord
	err       error
}

func (r *recordingSubmitter) Submit(ctx context.Context, record models.BookingRecord) error {
	r.submitted = append(r.submitted, record)
	return r.err
}

func confirmedRecord() models.BookingRecord {
	return models.BookingRecord{
		Space:            models.SpaceLabel,
		PreferredLibrary: "Baillieu Library",
		MinCapacity:      5,
		Date:             "14/12/2026",
		StartTime:        "14:00",
		EndTime:          "16:00",
		EventName:        "Test 6",
	}
}

func TestFinalizeBookingPersistsNotifiesAndSubmits(t *testing.T) {
	repo := memory.NewRepository()
	submitter := &recordingSubmitter{}
	svc := service.NewBookingService(repo, submitter)

	var notified []*models.BookingRecord
	svc.RegisterUpdateCallback(func(b *models.BookingRecord) {
		notified = append(notified, b)
	})

	err := svc.FinalizeBooking(context.Background(), confirmedRecord())
	require.NoError(t, err)

	require.Len(t, submitter.submitted, 1)
	assert.NotEmpty(t, submitter.submitted[0].ID)
	assert.False(t, submitter.submitted[0].ConfirmedAt.IsZero())

	require.Len(t, notified, 1)
	assert.Equal(t, submitter.submitted[0].ID, notified[0].ID)

	stored, err := repo.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Test 6", stored[0].EventName)
}

func TestFinalizeBookingSubmissionFailureSurfaces(t *testing.T) {
	repo := memory.NewRepository()
	submitErr := errors.New("browser crashed")
	svc := service.NewBookingService(repo, &recordingSubmitter{err: submitErr})

	err := svc.FinalizeBooking(context.Background(), confirmedRecord())
	assert.ErrorIs(t, err, submitErr)

	// The booking is still persisted even though submission failed
	stored, listErr := repo.ListBookings(context.Background())
	require.NoError(t, listErr)
	assert.Len(t, stored, 1)
}

func TestFinalizeBookingWithoutSubmitter(t *testing.T) {
	svc := service.NewBookingService(memory.NewRepository(), nil)
	assert.NoError(t, svc.FinalizeBooking(context.Background(), confirmedRecord()))
}
