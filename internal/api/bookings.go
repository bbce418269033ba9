package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// BookingHandler handles HTTP requests for booking management
type BookingHandler struct {
	service BookingServicer
}

// NewBookingHandler creates a new booking handler with the given service
func NewBookingHandler(service BookingServicer) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

// ServeHTTP handles HTTP requests for booking management
func (h *BookingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Path format: /api/bookings/{bookingID}
	pathParts := strings.Split(r.URL.Path, "/")
	var bookingID string

	if len(pathParts) >= 4 && pathParts[3] != "" {
		bookingID = pathParts[3]
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/bookings":
		h.listBookings(w, r)
	case r.Method == http.MethodGet && bookingID != "":
		h.getBooking(w, r, bookingID)
	case r.Method == http.MethodPost && r.URL.Path == "/api/bookings":
		h.createBooking(w, r)
	default:
		http.NotFound(w, r)
	}
}

// createBooking handles POST /api/bookings to submit a booking without
// going through the conversation
func (h *BookingHandler) createBooking(w http.ResponseWriter, r *http.Request) {
	var record models.BookingRecord

	err := json.NewDecoder(r.Body).Decode(&record)
	if err != nil {
		log.Printf("Error decoding booking request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if record.PreferredLibrary == "" || record.Date == "" || record.StartTime == "" ||
		record.EndTime == "" || record.EventName == "" || record.MinCapacity <= 0 {
		http.Error(w, "All booking fields are required", http.StatusBadRequest)
		return
	}
	if record.Space == "" {
		record.Space = models.SpaceLabel
	}

	err = h.service.FinalizeBooking(r.Context(), record)
	if err != nil {
		log.Printf("Error finalizing booking: %v", err)
		http.Error(w, "Error finalizing booking", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Booking confirmed",
		"summary": record.Summary(),
	})
}

// listBookings handles GET /api/bookings to list all stored bookings
func (h *BookingHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetAllBookings(r.Context())
	if err != nil {
		log.Printf("Error listing bookings: %v", err)
		http.Error(w, "Error retrieving bookings", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(bookings)
}

// getBooking handles GET /api/bookings/{bookingID} to get a specific booking
func (h *BookingHandler) getBooking(w http.ResponseWriter, r *http.Request, bookingID string) {
	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		log.Printf("Error getting booking %s: %v", bookingID, err)
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(booking)
}
