// Package repository defines interfaces for booking persistence
package repository

import (
	"context"
	"log"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/config"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/repository/memory"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/repository/redis"
)

// Repository stores finalized bookings
type Repository interface {
	SaveBooking(ctx context.Context, booking *models.BookingRecord) error
	GetBooking(ctx context.Context, id string) (*models.BookingRecord, error)
	ListBookings(ctx context.Context) ([]*models.BookingRecord, error)
	DeleteBooking(ctx context.Context, id string) error
}

// NewRepository creates the configured repository implementation. Redis is
// used when enabled; otherwise bookings live in memory for the lifetime of
// the process.
func NewRepository(cfg config.RedisConfig) (Repository, error) {
	if cfg.Enabled {
		log.Println("Using Redis repository for booking storage")
		return redis.NewRepository(cfg)
	}

	log.Println("Using in-memory repository for booking storage")
	return memory.NewRepository(), nil
}
