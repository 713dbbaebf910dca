// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/apartment-booking/backend/internal/booking"
	"github.com/apartment-booking/backend/internal/calendar"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// WriteEngineError maps a booking/calendar engine error onto its HTTP
// status and error code, falling back to a 500 for anything unclassified.
func WriteEngineError(w http.ResponseWriter, err error) {
	switch booking.KindOf(err) {
	case booking.KindNotFound:
		WriteError(w, http.StatusNotFound, ErrNotFound, err.Error())
		return
	case booking.KindCapacityExceeded, booking.KindInvalidRange, booking.KindPastDate, booking.KindAlreadyCancelled:
		WriteError(w, http.StatusBadRequest, ErrValidation, err.Error())
		return
	case booking.KindDateConflict:
		WriteError(w, http.StatusConflict, ErrConflict, err.Error())
		return
	case booking.KindForbidden:
		WriteError(w, http.StatusForbidden, ErrForbidden, err.Error())
		return
	}

	var fetchErr *calendar.FetchError
	switch {
	case errors.Is(err, calendar.ErrFeedNotFound), errors.Is(err, calendar.ErrUnitNotFound):
		WriteError(w, http.StatusNotFound, ErrNotFound, err.Error())
	case errors.Is(err, calendar.ErrSyncInProgress):
		WriteError(w, http.StatusConflict, ErrConflict, err.Error())
	case errors.As(err, &fetchErr):
		WriteError(w, http.StatusBadGateway, ErrFetchFailed, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		WriteError(w, http.StatusInternalServerError, ErrInternalError, "An unexpected error occurred")
	}
}

// ErrorRecovery is middleware that recovers from panics and returns a 500 error.
func ErrorRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v\n%s", err, debug.Stack())
				WriteError(w, http.StatusInternalServerError, ErrInternalError, "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Common error codes
const (
	ErrNotFound      = "not_found"
	ErrBadRequest    = "bad_request"
	ErrConflict      = "conflict"
	ErrInternalError = "internal_error"
	ErrValidation    = "validation_error"
	ErrForbidden     = "forbidden"
	ErrFetchFailed   = "fetch_failed"
)
