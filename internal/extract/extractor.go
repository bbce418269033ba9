// Package extract turns one free-form utterance into best-effort booking fields
package extract

import (
	"context"
	"fmt"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// Extractor is the capability the dialogue controller depends on. One call
// per turn; implementations own their own timeouts.
type Extractor interface {
	Extract(ctx context.Context, utterance string) (models.PartialRecord, error)
}

// ExtractionError reports that the extractor was unreachable, misconfigured,
// or returned output that could not be parsed into booking fields
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
