// Package submit hands a confirmed booking to the DiBS reservation site
package submit

import (
	"context"
	"fmt"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// Submitter is the capability that performs the site-specific reservation
// workflow for a finalized record. Submission is fire-and-forget from the
// dialogue's point of view: a failure is reported to the user but the
// conversation does not reopen the record.
type Submitter interface {
	Submit(ctx context.Context, record models.BookingRecord) error
}

// SubmissionError reports which workflow step the reservation failed at
type SubmissionError struct {
	Step string
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed at %s: %v", e.Step, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
