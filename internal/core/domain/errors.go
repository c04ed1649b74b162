package domain

import (
	"errors"
	"fmt"
)

// Invariant violation details. All wrap the generic invariant error so callers
// can match the family with errors.Is.
var (
	ErrInvariant       = errors.New("stored document state violates an invariant")
	ErrItemSumMismatch = fmt.Errorf("%w: sum of item totals does not equal totalHT", ErrInvariant)
	ErrNetMismatch     = fmt.Errorf("%w: netHT does not equal totalHT minus discount", ErrInvariant)
	ErrGrossMismatch   = fmt.Errorf("%w: totalTTC does not equal netHT plus totalTVA", ErrInvariant)
	ErrBalanceMismatch = fmt.Errorf("%w: stored balance does not match its derivation", ErrInvariant)
)

// TransitionError reports an illegal status transition, carrying the states the
// document could legally move to for caller feedback.
type TransitionError struct {
	Type    DocumentType
	From    DocumentStatus
	To      DocumentStatus
	Allowed []DocumentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s for %s (allowed: %v)", e.From, e.To, e.Type, e.Allowed)
}

// NewTransitionError builds a TransitionError with the allowed set filled in
// from the transition table.
func NewTransitionError(t DocumentType, from, to DocumentStatus) *TransitionError {
	return &TransitionError{Type: t, From: from, To: to, Allowed: NextStatuses(t, from)}
}
