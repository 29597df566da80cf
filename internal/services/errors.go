package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the HTTP boundary. All of them are
// recoverable by the caller; none abort the process.
var (
	// ErrSoldOut means the requested room count exceeds availability.
	ErrSoldOut = errors.New("not enough rooms available for the selected dates")

	// ErrInsufficientPoints means a redemption exceeds the balance. No
	// debit is performed.
	ErrInsufficientPoints = errors.New("insufficient points balance")

	// ErrNotFound covers records that do not exist or do not belong to
	// the requesting user.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyClaimed means a milestone reward row already exists for
	// the threshold.
	ErrAlreadyClaimed = errors.New("milestone already claimed")
)

// ValidationError reports caller mistakes (bad dates, bad counts). It is
// raised before any side effect happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
