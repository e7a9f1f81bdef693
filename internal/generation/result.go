package generation

import (
	"time"

	"github.com/google/uuid"
)

// ErrorDetail records one subscription that failed during a run.
type ErrorDetail struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Error          string    `json:"error"`
}

// Result is the transient per-run summary of a batch generation. It is
// returned to the trigger and forwarded to the notifier, never persisted.
type Result struct {
	CycleID      *uuid.UUID    `json:"cycle_id,omitempty"`
	CycleDate    *time.Time    `json:"cycle_date,omitempty"`
	Generated    int           `json:"generated"`
	Skipped      int           `json:"skipped"`
	Excluded     int           `json:"excluded"`
	Errors       int           `json:"errors"`
	ErrorDetails []ErrorDetail `json:"error_details,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// HasFailures reports whether any subscription failed during the run.
func (r *Result) HasFailures() bool {
	return r != nil && r.Errors > 0
}

// Empty reports whether the run found no cycle to work on.
func (r *Result) Empty() bool {
	return r != nil && r.CycleID == nil
}
