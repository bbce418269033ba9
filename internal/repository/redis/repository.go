// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/config"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// Common errors
var (
	ErrNotFound = errors.New("booking not found")
)

// Repository implements the repository interface with Redis storage. Each
// booking is stored as a flat hash with the exact field names DiBS cares
// about, so the stored document doubles as the submission payload.
type Repository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB and password from config when the URI leaves them unset
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		address := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
		client = redis.NewClient(&redis.Options{
			Addr:     address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.BookingTTL,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// bookingKey returns the Redis key for a booking hash
func (r *Repository) bookingKey(id string) string {
	return fmt.Sprintf("%sbooking:%s", r.keyPrefix, id)
}

// indexKey returns the Redis key of the set holding all booking IDs
func (r *Repository) indexKey() string {
	return r.keyPrefix + "index"
}

// SaveBooking writes a finalized booking as a flat hash and indexes its ID
func (r *Repository) SaveBooking(ctx context.Context, booking *models.BookingRecord) error {
	fields := map[string]any{
		"id":                booking.ID,
		"space":             booking.Space,
		"preferred_library": booking.PreferredLibrary,
		"min_capacity":      booking.MinCapacity,
		"date":              booking.Date,
		"start_time":        booking.StartTime,
		"end_time":          booking.EndTime,
		"event_name":        booking.EventName,
		"confirmed_at":      booking.ConfirmedAt.Format(time.RFC3339),
	}

	key := r.bookingKey(booking.ID)
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	pipe.SAdd(ctx, r.indexKey(), booking.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.BookingRecord, error) {
	fields, err := r.client.HGetAll(ctx, r.bookingKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return recordFromFields(fields), nil
}

// ListBookings returns every indexed booking. Expired entries are pruned
// from the index as they are encountered.
func (r *Repository) ListBookings(ctx context.Context) ([]*models.BookingRecord, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list booking IDs: %w", err)
	}

	bookings := make([]*models.BookingRecord, 0, len(ids))
	for _, id := range ids {
		fields, err := r.client.HGetAll(ctx, r.bookingKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
		}
		if len(fields) == 0 {
			// Booking hash expired; drop the dangling index entry
			r.client.SRem(ctx, r.indexKey(), id)
			continue
		}
		bookings = append(bookings, recordFromFields(fields))
	}
	return bookings, nil
}

// DeleteBooking removes a booking and its index entry
func (r *Repository) DeleteBooking(ctx context.Context, id string) error {
	removed, err := r.client.Del(ctx, r.bookingKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	r.client.SRem(ctx, r.indexKey(), id)
	return nil
}

// recordFromFields rebuilds a BookingRecord from the stored flat hash
func recordFromFields(fields map[string]string) *models.BookingRecord {
	capacity, _ := strconv.Atoi(fields["min_capacity"])
	confirmedAt, _ := time.Parse(time.RFC3339, fields["confirmed_at"])
	return &models.BookingRecord{
		ID:               fields["id"],
		Space:            fields["space"],
		PreferredLibrary: fields["preferred_library"],
		MinCapacity:      capacity,
		Date:             fields["date"],
		StartTime:        fields["start_time"],
		EndTime:          fields["end_time"],
		EventName:        fields["event_name"],
		ConfirmedAt:      confirmedAt,
	}
}
