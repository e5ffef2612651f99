package session

import (
	"maps"
	"time"
)

// Status describes where the session is in its lifecycle.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// User is the last known authenticated identity. Its shape is owned by the backend.
type User map[string]any

// Session represents the credentials of the current admin.
type Session struct {
	AccessToken  string    `json:"accessToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TenantID     string    `json:"tenantId,omitempty"`
	TenantSlug   string    `json:"tenantSlug,omitempty"`
	SessionID    string    `json:"sessionId,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
	User         User      `json:"user,omitempty"`
	Status       Status    `json:"status,omitempty"`
}

// AuthPayload is the token bundle returned by login, register and refresh calls.
type AuthPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	TenantID     string `json:"tenantId,omitempty"`
	TenantSlug   string `json:"tenantSlug,omitempty"`
	User         User   `json:"user,omitempty"`
}

// Provider is the read/write contract the request client and consumers rely on.
type Provider interface {
	State() Session
	SetAuthPayload(payload *AuthPayload, tenantSlug string) error
	UpdateUser(partial User) error
	Clear() error
}

// Authenticated reports whether the session carries an access token.
func (s *Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.AccessToken != ""
}

// Expired reports whether the access token expiry is known and already passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

func (s Session) clone() Session {
	if s.User != nil {
		s.User = maps.Clone(s.User)
	}
	return s
}

func cleared() Session {
	return Session{Status: StatusUnauthenticated}
}
