package request

import (
	"errors"
	"fmt"
)

const defaultErrorMessage = "request failed"

var (
	// ErrNoRefreshToken is returned by the coordinator when a 401 cannot be refreshed.
	ErrNoRefreshToken = errors.New("no refresh token available")
	// ErrRefreshFailed is returned when the refresh endpoint rejected the refresh token.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// Error is a non-2xx response normalized by the client.
type Error struct {
	Status  int
	Message string
	// Payload is the parsed response body: decoded JSON or the raw text.
	Payload any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// NewError builds an Error, taking the message from payload["message"] when present.
func NewError(status int, payload any) *Error {
	ret := &Error{Status: status, Message: defaultErrorMessage, Payload: payload}
	if aMap, ok := payload.(map[string]any); ok {
		if message, ok := aMap["message"].(string); ok && message != "" {
			ret.Message = message
		}
	}
	return ret
}

// AsError unwraps err into *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == status
}
