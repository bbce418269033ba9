package api

import (
	"net/http"
)

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(service BookingServicer, converser Converser) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints for Kubernetes
	mux.HandleFunc("/health/live", HealthLiveHandler)
	mux.HandleFunc("/health/ready", HealthReadyHandler)

	// Conversational booking endpoint
	chatHandler := NewChatHandler(converser)
	mux.Handle("/api/chat", chatHandler)

	// Booking management endpoints
	bookingHandler := NewBookingHandler(service)
	mux.Handle("/api/bookings", bookingHandler)
	mux.Handle("/api/bookings/", bookingHandler)

	return mux
}
