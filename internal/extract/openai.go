package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/config"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/normalize"
)

// systemPrompt instructs the model to answer with bare JSON only. The date
// is deliberately left as the user's wording so the local normalizer stays
// the single authority on year inference and relative phrases.
const systemPrompt = "You extract UniMelb library room booking fields from user messages. " +
	"Respond ONLY with JSON with keys: space, preferred_library, min_capacity, " +
	"date, start_time, end_time, event_name. " +
	"space must be exactly 'Book a Space in a Library'. " +
	"preferred_library must be null or one of: " +
	"FBE Building, EASTERN RESOURCE CENTRE LIBRARY, Baillieu Library, " +
	"Southbank The Hub, Werribee Learning & Teaching Building. " +
	"For date, copy the user's wording (e.g., 'next Thursday' or '12/12'); " +
	"do NOT invent or assume a year. " +
	"time is HH:MM 24-hour. " +
	"min_capacity is an integer. event_name is a short string."

// chatCompleter is the slice of the OpenAI client the extractor uses,
// kept narrow so tests can substitute a canned responder
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIExtractor drafts booking fields with a chat completion and then
// enforces local normalization, so downstream consumers only ever see
// canonical values
type OpenAIExtractor struct {
	client chatCompleter
	model  string
}

// NewOpenAIExtractor creates an extractor backed by the OpenAI API
func NewOpenAIExtractor(cfg config.OpenAIConfig) *OpenAIExtractor {
	return &OpenAIExtractor{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
	}
}

// rawPayload mirrors the JSON shape the model is asked to produce.
// min_capacity is left loosely typed because models sometimes quote it.
type rawPayload struct {
	PreferredLibrary string `json:"preferred_library"`
	MinCapacity      any    `json:"min_capacity"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	EventName        string `json:"event_name"`
}

// Extract sends the utterance to the model and normalizes whatever comes
// back. Unreachable API or unparseable output yields an ExtractionError;
// individual field values that fail normalization silently stay unset.
func (e *OpenAIExtractor) Extract(ctx context.Context, utterance string) (models.PartialRecord, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: utterance},
		},
	})
	if err != nil {
		return models.PartialRecord{}, &ExtractionError{Reason: "openai request failed", Err: err}
	}
	if len(resp.Choices) == 0 {
		return models.PartialRecord{}, &ExtractionError{Reason: "openai returned no choices"}
	}

	payload, err := parsePayload(resp.Choices[0].Message.Content)
	if err != nil {
		return models.PartialRecord{}, &ExtractionError{Reason: "unparseable model output", Err: err}
	}

	return models.PartialRecord{
		PreferredLibrary: normalize.Library(payload.PreferredLibrary),
		MinCapacity:      normalize.Capacity(payload.MinCapacity),
		Date:             normalize.Date(payload.Date),
		StartTime:        normalize.Time(payload.StartTime),
		EndTime:          normalize.Time(payload.EndTime),
		EventName:        strings.TrimSpace(payload.EventName),
	}, nil
}

// parsePayload decodes the model output, falling back to the outermost
// brace block when the model wrapped its JSON in chatter
func parsePayload(content string) (rawPayload, error) {
	var payload rawPayload
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		return payload, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return rawPayload{}, errors.New("no JSON object in model output")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return rawPayload{}, err
	}
	return payload, nil
}
