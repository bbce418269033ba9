// Package dialogue implements the turn-based booking conversation
package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/extract"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/session"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/utils"
)

// State identifies where the conversation currently is
type State int

const (
	// StateIdle means no booking is in progress
	StateIdle State = iota
	// StateCollecting means a booking session is filling in fields
	StateCollecting
	// StateAwaitingConfirmation means all fields are set and the user has
	// been shown a summary to confirm or correct
	StateAwaitingConfirmation
)

// String returns the string representation of a dialogue state
func (s State) String() string {
	return [...]string{"idle", "collecting", "awaiting_confirmation"}[s]
}

// Finalizer receives the confirmed record for persistence and submission
type Finalizer interface {
	FinalizeBooking(ctx context.Context, record models.BookingRecord) error
}

// bookingIntentKeywords switch the conversation into booking mode
var bookingIntentKeywords = []string{"book", "booking", "reserve", "room", "library room", "dibs"}

// exitKeywords terminate the conversation entirely
var exitKeywords = map[string]struct{}{"exit": {}, "quit": {}}

// directAffirmations confirm a summary when the whole (normalized)
// utterance matches one of them
var directAffirmations = map[string]struct{}{
	"yes": {}, "y": {}, "yeah": {}, "yep": {}, "yup": {},
	"ok": {}, "okay": {}, "sure": {}, "confirm": {}, "fine": {},
	"alright": {}, "all good": {}, "sounds good": {}, "looks good": {},
	"go ahead": {}, "go for it": {}, "do it": {},
	"that’s fine": {}, "thats fine": {}, "lock it in": {},
}

// affirmingFragments confirm when contained anywhere in the utterance,
// catching phrasings like "looks good to me"
var affirmingFragments = []string{
	"looks good", "sounds good", "all good",
	"that’s fine", "thats fine", "good to me", "happy with that",
}

// Controller is the turn-level state machine. It owns at most one booking
// session at a time and is driven by exactly one conversation; turns are
// strictly sequential.
type Controller struct {
	extractor extract.Extractor
	finalizer Finalizer

	state   State
	session *session.BookingSession
	done    bool
}

// NewController creates a controller in the idle state
func NewController(extractor extract.Extractor, finalizer Finalizer) *Controller {
	return &Controller{extractor: extractor, finalizer: finalizer}
}

// State returns the current dialogue state
func (c *Controller) State() State {
	return c.state
}

// Done reports whether an exit keyword has ended the conversation
func (c *Controller) Done() bool {
	return c.done
}

// Greeting is the opening line shown before the first turn
func (c *Controller) Greeting() string {
	return "Hi! I’m your UniMelb library booking helper. Type 'exit' or press Ctrl+C to quit."
}

// HandleTurn processes one utterance and returns the next response. Every
// failure path returns a user-visible message; nothing here is fatal to
// the conversation.
func (c *Controller) HandleTurn(ctx context.Context, utterance string) string {
	trimmed := strings.TrimSpace(utterance)
	lowered := strings.ToLower(trimmed)

	if _, isExit := exitKeywords[lowered]; isExit || trimmed == "" {
		c.done = true
		c.state = StateIdle
		c.session = nil
		return "Bye! Come back when you need a room."
	}

	switch c.state {
	case StateIdle:
		return c.handleIdle(ctx, trimmed)
	case StateAwaitingConfirmation:
		return c.handleAwaitingConfirmation(ctx, trimmed)
	default:
		return c.handleCollecting(ctx, trimmed)
	}
}

// handleIdle either kicks off a booking session or nudges the user
func (c *Controller) handleIdle(ctx context.Context, utterance string) string {
	if !looksLikeBookingIntent(utterance) {
		return "If you want to book a library room, try something like " +
			"'book Baillieu on 14/12, 2-4pm, 5 people, call it Test 6'."
	}

	c.session = session.New()
	c.state = StateCollecting

	partial, err := c.extractor.Extract(ctx, utterance)
	if err != nil {
		log.Printf("Extraction failed on booking start: %v", err)
		return fmt.Sprintf("I had a bit of trouble reading that automatically, "+
			"but we can sort it out together. (Error: %v)", err)
	}
	c.session.MergeFrom(partial, nil)

	if c.session.IsComplete() {
		c.state = StateAwaitingConfirmation
		c.session.AwaitingConfirmation = true
		return "Nice, here’s what I’m thinking: " + c.session.Record().Summary() +
			" Does that look right? If not, tell me what you'd like to change."
	}

	return "Great, let’s book a room. I still need: " +
		strings.Join(c.session.MissingFields(), ", ") + "."
}

// handleCollecting merges whatever the extractor recognised and either
// keeps collecting or moves on to confirmation
func (c *Controller) handleCollecting(ctx context.Context, utterance string) string {
	partial, err := c.extractor.Extract(ctx, utterance)
	if err != nil {
		log.Printf("Extraction failed while collecting: %v", err)
		return fmt.Sprintf("I couldn’t quite map that to the booking details, "+
			"but keep going and I’ll adjust what I can. (Error: %v)", err)
	}
	c.session.MergeFrom(partial, nil)

	if missing := c.session.MissingFields(); len(missing) > 0 {
		return fmt.Sprintf("Almost there — I still need: %s. "+
			"Just send those details and I’ll plug them in.", strings.Join(missing, ", "))
	}

	c.state = StateAwaitingConfirmation
	c.session.AwaitingConfirmation = true
	return "Here’s what I’ve put together: " + c.session.Record().Summary() +
		" Happy with that? If not, tell me what to change."
}

// handleAwaitingConfirmation finalizes on an affirmation, otherwise treats
// the utterance as a scoped correction to the summary
func (c *Controller) handleAwaitingConfirmation(ctx context.Context, utterance string) string {
	if isAffirmation(utterance) {
		return c.finalize(ctx)
	}

	scope := correctionScope(utterance)
	partial, err := c.extractor.Extract(ctx, utterance)
	if err != nil {
		log.Printf("Extraction failed during correction: %v", err)
		return fmt.Sprintf("I couldn’t quite map that to the booking details, "+
			"but keep going and I’ll adjust what I can. (Error: %v)", err)
	}
	c.session.MergeFrom(partial, scope)

	if missing := c.session.MissingFields(); len(missing) > 0 {
		c.state = StateCollecting
		c.session.AwaitingConfirmation = false
		return fmt.Sprintf("Almost there — I still need: %s. "+
			"Just send those details and I’ll plug them in.", strings.Join(missing, ", "))
	}

	return "Updated version: " + c.session.Record().Summary() +
		" How does that look now? If you’re happy with it, just say 'yes' or " +
		"anything similar; otherwise tell me what to tweak."
}

// finalize snapshots the record, hands it off, and resets to idle. A
// submission failure is reported but never reopens the session.
func (c *Controller) finalize(ctx context.Context) string {
	record := c.session.FinalRecord()
	c.state = StateIdle
	c.session = nil

	if err := c.finalizer.FinalizeBooking(ctx, record); err != nil {
		log.Printf("Booking handoff failed for %s: %v", utils.SanitizeLogString(record.EventName), err)
		return fmt.Sprintf("Booking flow failed to complete: %v", err)
	}
	return "Locked in! " + record.Summary() + " Starting the booking flow now."
}

// looksLikeBookingIntent spots booking keywords anywhere in the utterance
func looksLikeBookingIntent(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, kw := range bookingIntentKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// isAffirmation detects natural "yes" style confirmations
func isAffirmation(utterance string) bool {
	normalized := strings.ToLower(strings.TrimSpace(utterance))
	if _, ok := directAffirmations[normalized]; ok {
		return true
	}
	for _, fragment := range affirmingFragments {
		if strings.Contains(normalized, fragment) {
			return true
		}
	}
	return false
}

// correctionScope keyword-spots which fields a correction utterance means
// to touch. Matches union: "change the library and capacity" opens both
// fields. The bare word "time" opens both start and end time. No keyword
// at all yields the empty scope, so the merge changes nothing.
func correctionScope(utterance string) models.FieldScope {
	lowered := strings.ToLower(utterance)
	scope := models.NewFieldScope()

	if containsAny(lowered, "event", "name", "title") {
		scope.Add(models.FieldEventName)
	}
	if strings.Contains(lowered, "library") {
		scope.Add(models.FieldLibrary)
	}
	if strings.Contains(lowered, "date") {
		scope.Add(models.FieldDate)
	}
	if strings.Contains(lowered, "start") || strings.Contains(lowered, "time") {
		scope.Add(models.FieldStartTime)
	}
	if strings.Contains(lowered, "end") || strings.Contains(lowered, "time") {
		scope.Add(models.FieldEndTime)
	}
	if containsAny(lowered, "capacity", "people", "attendees") {
		scope.Add(models.FieldCapacity)
	}
	return scope
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
