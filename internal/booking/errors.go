package booking

import (
	"errors"
	"fmt"
)

// Kind classifies booking engine failures so the HTTP boundary can map each
// to a status code without string matching.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindInvalidRange     Kind = "invalid_range"
	KindPastDate         Kind = "past_date"
	KindDateConflict     Kind = "date_conflict"
	KindForbidden        Kind = "forbidden"
	KindAlreadyCancelled Kind = "already_cancelled"
)

// Error is a booking engine failure with a classification.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the classification of err, or "" if err is not a booking
// engine error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
