package services

import (
	"errors"
	"fmt"
)

// Eligibility errors are typed so callers can tell a rejected operation from
// an infrastructure failure.
var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrNotParticipant   = errors.New("user is not a participant in this match")
	ErrMatchEnded       = errors.New("match already ended")
	ErrAlreadyRevealed  = errors.New("match already revealed")
	ErrMatchingDisabled = errors.New("matching is disabled for this user")

	// ErrConditionFailed is the store-level signal that a conditional update
	// lost a race. Callers treat it as a normal outcome: re-read, re-decide.
	ErrConditionFailed = errors.New("conditional update rejected")
)

// RevealNotEligibleError rejects a reveal request made before the match has
// reached its reveal threshold. Remaining is the message count still needed.
type RevealNotEligibleError struct {
	Remaining int
}

func (e *RevealNotEligibleError) Error() string {
	return fmt.Sprintf("reveal not yet eligible: %d more messages required", e.Remaining)
}

// IsRevealNotEligible unwraps a RevealNotEligibleError if err carries one.
func IsRevealNotEligible(err error) (*RevealNotEligibleError, bool) {
	var e *RevealNotEligibleError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
