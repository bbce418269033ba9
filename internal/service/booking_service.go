// Package service provides business logic for confirmed bookings
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/repository"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/submit"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/utils"
)

// BookingUpdateCallback is a function type for booking update callbacks
type BookingUpdateCallback func(*models.BookingRecord)

// BookingService persists confirmed bookings and drives the reservation
// submitter. It sits between the dialogue controller and everything
// downstream of a confirmed record.
type BookingService struct {
	repo            repository.Repository
	submitter       submit.Submitter
	updateCallbacks []BookingUpdateCallback
}

// NewBookingService creates a new BookingService with the given repository
// and submitter
func NewBookingService(repo repository.Repository, submitter submit.Submitter) *BookingService {
	return &BookingService{
		repo:            repo,
		submitter:       submitter,
		updateCallbacks: make([]BookingUpdateCallback, 0),
	}
}

// RegisterUpdateCallback registers a callback function to be called when a
// booking is confirmed
func (s *BookingService) RegisterUpdateCallback(callback BookingUpdateCallback) {
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// notifyUpdate calls all registered callbacks with the confirmed booking
func (s *BookingService) notifyUpdate(booking *models.BookingRecord) {
	for _, callback := range s.updateCallbacks {
		callback(booking)
	}
}

// FinalizeBooking stores the confirmed record, notifies listeners, and
// hands it to the submitter. Persistence problems are logged but do not
// block submission; a submission failure is returned to the caller and
// surfaced to the user.
func (s *BookingService) FinalizeBooking(ctx context.Context, record models.BookingRecord) error {
	record.ID = uuid.NewString()
	record.ConfirmedAt = time.Now()

	if err := s.repo.SaveBooking(ctx, &record); err != nil {
		log.Printf("Could not persist booking %s: %v", utils.SanitizeLogString(record.EventName), err)
	}

	s.notifyUpdate(&record)

	if s.submitter == nil {
		return nil
	}
	if err := s.submitter.Submit(ctx, record); err != nil {
		return err
	}

	log.Printf("Booking %s submitted", record.ID)
	return nil
}

// GetAllBookings returns every stored booking
func (s *BookingService) GetAllBookings(ctx context.Context) ([]*models.BookingRecord, error) {
	return s.repo.ListBookings(ctx)
}

// GetBooking returns one stored booking by ID
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.BookingRecord, error) {
	return s.repo.GetBooking(ctx, id)
}
