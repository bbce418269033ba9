// Package redis_test provides tests for the Redis repository
package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/config"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/repository/redis"
)

func setupTestRedis(t *testing.T) (*redis.Repository, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.RedisConfig{
		Enabled:    true,
		Host:       mr.Host(),
		Port:       mr.Port(),
		KeyPrefix:  "test:",
		BookingTTL: time.Hour * 24,
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo, mr
}

func sampleBooking(id string) *models.BookingRecord {
	return &models.BookingRecord{
		ID:               id,
		Space:            models.SpaceLabel,
		PreferredLibrary: "Baillieu Library",
		MinCapacity:      5,
		Date:             "14/12/2026",
		StartTime:        "14:00",
		EndTime:          "16:00",
		EventName:        "Test 6",
		ConfirmedAt:      time.Date(2026, 12, 1, 9, 30, 0, 0, time.UTC),
	}
}

// TestRedisWithURI tests connection with URI format
func TestRedisWithURI(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	uri := fmt.Sprintf("redis://%s:%s", mr.Host(), mr.Port())
	cfg := config.RedisConfig{
		Enabled:    true,
		URI:        uri,
		KeyPrefix:  "test:",
		BookingTTL: time.Hour * 24,
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.SaveBooking(ctx, sampleBooking("uri-test")))

	saved, err := repo.GetBooking(ctx, "uri-test")
	require.NoError(t, err)
	assert.Equal(t, "Baillieu Library", saved.PreferredLibrary)
}

func TestSaveAndGetBooking(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	booking := sampleBooking("booking123")
	require.NoError(t, repo.SaveBooking(ctx, booking))

	saved, err := repo.GetBooking(ctx, "booking123")
	require.NoError(t, err)
	assert.Equal(t, booking, saved)

	// The stored hash carries the exact flat field names DiBS expects
	assert.Equal(t, models.SpaceLabel, mr.HGet("test:booking:booking123", "space"))
	assert.Equal(t, "Baillieu Library", mr.HGet("test:booking:booking123", "preferred_library"))
	assert.Equal(t, "5", mr.HGet("test:booking:booking123", "min_capacity"))
	assert.Equal(t, "14/12/2026", mr.HGet("test:booking:booking123", "date"))
	assert.Equal(t, "14:00", mr.HGet("test:booking:booking123", "start_time"))
	assert.Equal(t, "16:00", mr.HGet("test:booking:booking123", "end_time"))
	assert.Equal(t, "Test 6", mr.HGet("test:booking:booking123", "event_name"))
}

func TestGetMissingBooking(t *testing.T) {
	repo, _ := setupTestRedis(t)

	_, err := repo.GetBooking(context.Background(), "nope")
	assert.ErrorIs(t, err, redis.ErrNotFound)
}

func TestListBookings(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveBooking(ctx, sampleBooking("one")))
	require.NoError(t, repo.SaveBooking(ctx, sampleBooking("two")))

	bookings, err := repo.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestListPrunesExpiredBookings(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveBooking(ctx, sampleBooking("keeper")))
	require.NoError(t, repo.SaveBooking(ctx, sampleBooking("goner")))

	// Let the second booking's hash expire while its index entry remains
	mr.FastForward(25 * time.Hour)
	require.NoError(t, repo.SaveBooking(ctx, sampleBooking("keeper")))

	bookings, err := repo.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, "keeper", bookings[0].ID)
}

func TestDeleteBooking(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveBooking(ctx, sampleBooking("doomed")))
	require.NoError(t, repo.DeleteBooking(ctx, "doomed"))

	_, err := repo.GetBooking(ctx, "doomed")
	assert.ErrorIs(t, err, redis.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteBooking(ctx, "doomed"), redis.ErrNotFound)
}
