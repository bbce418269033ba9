// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// ErrNotFound is returned when a requested booking is not found
var ErrNotFound = errors.New("booking not found")

// Repository implements the repository interface with in-memory storage
type Repository struct {
	bookings map[string]models.BookingRecord
	mu       sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		bookings: make(map[string]models.BookingRecord),
	}
}

// SaveBooking stores a finalized booking, replacing any previous record
// with the same ID
func (r *Repository) SaveBooking(ctx context.Context, booking *models.BookingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[booking.ID] = *booking
	return nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.BookingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &booking, nil
}

// ListBookings returns all stored bookings, most recently confirmed first
func (r *Repository) ListBookings(ctx context.Context) ([]*models.BookingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*models.BookingRecord, 0, len(r.bookings))
	for id := range r.bookings {
		booking := r.bookings[id]
		bookings = append(bookings, &booking)
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].ConfirmedAt.After(bookings[j].ConfirmedAt)
	})
	return bookings, nil
}

// DeleteBooking removes a booking by ID
func (r *Repository) DeleteBooking(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}
