package services

import (
	"errors"
	"fmt"
)

// Error taxonomy for the rewards engine. Handlers map these to HTTP statuses;
// anything else is a persistence failure and comes back as a generic 500.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrPhotoRequired    = errors.New("activity requires a photo")
	ErrNegativeDelta    = errors.New("xp delta must be non-negative")
)

// PartialRewardError marks a failure after the progress record was durably
// completed but before all reward writes committed. The completion entry
// point is safe to retry: the rewards-granted stamp keeps XP exactly-once
// while letting retries re-run the remaining steps.
type PartialRewardError struct {
	ProgressID string
	Err        error
}

func (e *PartialRewardError) Error() string {
	return fmt.Sprintf("rewards incomplete for progress %s: %v", e.ProgressID, e.Err)
}

func (e *PartialRewardError) Unwrap() error {
	return e.Err
}
