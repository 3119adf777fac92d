package handler

import (
	"errors"
	"net/http"
)

// StatusError carries an HTTP status code alongside a message. Handlers use
// it to surface client errors without leaking internals.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// NewStatusError creates a status error.
func NewStatusError(code int, message string) *StatusError {
	return &StatusError{Code: code, Message: message}
}

// errorResponse maps an error to a status and safe message. Unknown errors
// become a 500 with a generic message.
func errorResponse(err error) (int, string) {
	var se *StatusError
	if errors.As(err, &se) {
		message := se.Message
		if message == "" {
			message = http.StatusText(se.Code)
		}
		return se.Code, message
	}
	return http.StatusInternalServerError, "something went wrong"
}
