package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a single-row read matches nothing.
var ErrNotFound = errors.New("gateway: row not found")

// APIError carries the human-readable message returned by the backend.
// It is surfaced verbatim to the initiating view and never retried.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.Status)
}

// remoteError is the shape of error bodies returned by the backend. The
// table API uses "message", the auth sub-API uses "msg" or
// "error_description" depending on the failure.
type remoteError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (r remoteError) text() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.ErrorDescription != "":
		return r.ErrorDescription
	case r.Msg != "":
		return r.Msg
	default:
		return "erro inesperado ao comunicar com o servidor"
	}
}
