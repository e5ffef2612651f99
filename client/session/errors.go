package session

import "errors"

var (
	// ErrIncompleteTokens is returned when a payload carries only one of the two tokens.
	ErrIncompleteTokens = errors.New("session: access and refresh token must be set together")
	// ErrNotAuthenticated is returned by UpdateUser when there is no session to update.
	ErrNotAuthenticated = errors.New("session: not authenticated")
)
