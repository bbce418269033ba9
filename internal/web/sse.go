// Package web streams booking updates to browsers over server-sent events
package web

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// SSEClient represents a connected client receiving server-sent events
type SSEClient struct {
	id             string
	responseWriter http.ResponseWriter
	disconnected   chan struct{}
	lastActive     time.Time
}

// SSEManager handles server-sent events to clients
type SSEManager struct {
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
}

// NewSSEManager creates a new server-sent events manager
func NewSSEManager() *SSEManager {
	manager := &SSEManager{
		clients: make(map[string]*SSEClient),
	}

	go manager.cleanupStaleSessions()

	return manager
}

// cleanupStaleSessions periodically removes clients that haven't been active
func (sm *SSEManager) cleanupStaleSessions() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		threshold := time.Now().Add(-2 * time.Minute)

		sm.clientsMutex.Lock()
		for id, client := range sm.clients {
			select {
			case <-client.disconnected:
				delete(sm.clients, id)
				log.Printf("Removed disconnected SSE client: %s", id)
			default:
				if client.lastActive.Before(threshold) {
					close(client.disconnected)
					delete(sm.clients, id)
					log.Printf("Removed stale SSE client: %s (inactive since %v)", id, client.lastActive)
				}
			}
		}
		sm.clientsMutex.Unlock()
	}
}

// ServeHTTP implements the http.Handler interface for SSE connections
func (sm *SSEManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// CORS headers so the feed works from a local dashboard
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	if !acceptsEventStream(r) {
		http.Error(w, "This endpoint requires EventStream support", http.StatusNotAcceptable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	clientID := fmt.Sprintf("%d", time.Now().UnixNano())
	log.Printf("SSE client connected: %s from %s", clientID, r.RemoteAddr)

	client := &SSEClient{
		id:             clientID,
		responseWriter: w,
		disconnected:   make(chan struct{}),
		lastActive:     time.Now(),
	}

	sm.clientsMutex.Lock()
	sm.clients[clientID] = client
	sm.clientsMutex.Unlock()

	defer func() {
		sm.clientsMutex.Lock()
		delete(sm.clients, clientID)
		sm.clientsMutex.Unlock()
		log.Printf("SSE client disconnected: %s", clientID)
	}()

	fmt.Fprintf(w, "retry: 5000\n")
	sse.Encode(w, sse.Event{
		Event: "connected",
		Data:  map[string]string{"id": clientID},
	})
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	done := r.Context().Done()

	for {
		select {
		case <-done:
			sm.closeClient(client)
			return
		case <-client.disconnected:
			return
		case <-heartbeat.C:
			_, err := fmt.Fprintf(w, ": heartbeat %s\n\n", time.Now().Format(time.RFC3339))
			if err != nil {
				log.Printf("Error sending heartbeat to client %s: %v", clientID, err)
				sm.closeClient(client)
				return
			}
			flusher.Flush()

			sm.clientsMutex.Lock()
			client.lastActive = time.Now()
			sm.clientsMutex.Unlock()
		}
	}
}

// NotifyBookingConfirmed sends a confirmed booking to all connected clients.
// It holds the write lock for the whole broadcast: lastActive is mutated
// here and read by the cleanup goroutine.
func (sm *SSEManager) NotifyBookingConfirmed(booking *models.BookingRecord) {
	eventID := fmt.Sprintf("%d", time.Now().UnixNano())

	sm.clientsMutex.Lock()
	defer sm.clientsMutex.Unlock()

	log.Printf("Notifying %d SSE clients about booking %s", len(sm.clients), booking.ID)

	for id, client := range sm.clients {
		select {
		case <-client.disconnected:
			delete(sm.clients, id)
			continue
		default:
		}

		err := sse.Encode(client.responseWriter, sse.Event{
			Id:    eventID,
			Event: "booking-confirmed",
			Data:  booking,
		})
		if err != nil {
			log.Printf("Error sending SSE event to client %s: %v", id, err)
			close(client.disconnected)
			delete(sm.clients, id)
			continue
		}

		if f, ok := client.responseWriter.(http.Flusher); ok {
			f.Flush()
			client.lastActive = time.Now()
		}
	}
}

// closeClient marks a client as disconnected exactly once
func (sm *SSEManager) closeClient(client *SSEClient) {
	sm.clientsMutex.Lock()
	defer sm.clientsMutex.Unlock()

	select {
	case <-client.disconnected:
	default:
		close(client.disconnected)
	}
}

// acceptsEventStream reports whether the client can consume SSE
func acceptsEventStream(r *http.Request) bool {
	accepts := r.Header.Get("Accept")
	return accepts == "" || accepts == "*/*" || strings.Contains(accepts, "text/event-stream")
}
