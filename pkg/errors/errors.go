package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Status  int      `json:"-"`
	Details []string `json:"details,omitempty"`
	Path    string   `json:"path,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so callers can test against the
// predefined values even after Clone or Wrap.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. Codes are stable and consumed by clients.
var (
	ErrNoRoomsFound       = New("NO_ROOMS_FOUND", http.StatusNotFound, "No available rooms found for the given time range")
	ErrMaxCapacity        = New("MAX_CAPACITY", http.StatusUnprocessableEntity, "The requested number of attendees is greater than the available room capacity")
	ErrMaintenanceTime    = New("ROOM_MAINTENANCE_TIME", http.StatusConflict, "Conference room is temporarily unavailable during this time. Please book room after maintenance timings.")
	ErrBookingConflict    = New("ROOM_BOOKING_CONFLICT", http.StatusConflict, "Room was booked by another request, please retry")
	ErrBookingNotFound    = New("BOOKING_NOT_FOUND", http.StatusNotFound, "No booking found for the given reference")
	ErrInvalidRequest     = New("INVALID_REQUEST", http.StatusBadRequest, "Invalid value found in the request")
	ErrInvalidParameter   = New("INVALID_REQUEST_PARAMETER", http.StatusBadRequest, "Invalid request parameter")
	ErrInvalidHeaderParam = New("INVALID_REQUEST_HEADER_PARAMETER", http.StatusBadRequest, "Invalid request header parameter")
	ErrSystem             = New("SYSTEM_ERROR", http.StatusInternalServerError, "Something went wrong with the service")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache entry not found")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrSystem.Code, ErrSystem.Status, ErrSystem.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of err carrying the supplied detail lines.
func WithDetails(err *Error, details []string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = append([]string(nil), details...)
	return &clone
}
