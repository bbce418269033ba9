package api

import (
	"context"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// BookingServicer defines the service operations needed by API handlers
type BookingServicer interface {
	GetAllBookings(ctx context.Context) ([]*models.BookingRecord, error)
	GetBooking(ctx context.Context, id string) (*models.BookingRecord, error)
	FinalizeBooking(ctx context.Context, record models.BookingRecord) error
}

// Converser defines the dialogue operations needed by the chat handler
type Converser interface {
	HandleTurn(ctx context.Context, utterance string) string
	Done() bool
}
