package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/utils"
)

// ChatRequest carries one user utterance
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the agent's reply for one turn
type ChatResponse struct {
	Reply string `json:"reply"`
	Done  bool   `json:"done"`
}

// ChatHandler drives the booking conversation over HTTP. The dialogue
// state machine is single-session, so turns are serialized.
type ChatHandler struct {
	mu        sync.Mutex
	converser Converser
}

// NewChatHandler creates a chat handler backed by the given conversation
func NewChatHandler(converser Converser) *ChatHandler {
	return &ChatHandler{
		converser: converser,
	}
}

// ServeHTTP handles POST /api/chat
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		log.Printf("Error decoding chat request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	log.Printf("Chat turn: %s", utils.SanitizeLogString(req.Message))

	h.mu.Lock()
	reply := h.converser.HandleTurn(r.Context(), req.Message)
	done := h.converser.Done()
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatResponse{
		Reply: reply,
		Done:  done,
	})
}
