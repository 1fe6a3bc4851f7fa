package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientAmount is matched by every ValidationError.
	ErrInsufficientAmount = errors.New("given amount is too little")
	// ErrNegativeAmount is returned when either amount is below zero.
	ErrNegativeAmount = errors.New("amounts must be non-negative")
	// ErrInvalidDenominations is returned when a denomination table is empty, too large,
	// contains non-positive units or lacks the unit 1.
	ErrInvalidDenominations = errors.New("denominations must contain between 1 and 16 positive integers including 1")
)

// ValidationError reports that the amount given does not cover the amount charged.
// Its message is meant to be shown to the user as is.
type ValidationError struct {
	AmountCharged Amount
	AmountGiven   Amount
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Given amount %d is too little to charge %d.", e.AmountGiven, e.AmountCharged)
}

// Is lets errors.Is(err, ErrInsufficientAmount) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInsufficientAmount
}

// IsValidationError reports whether err is the user-facing validation failure.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
