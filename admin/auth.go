package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/viant/tenantadmin/client/request"
	"github.com/viant/tenantadmin/client/session"
)

const (
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"
	LogoutPath   = "/auth/logout"
	MePath       = "/auth/me"
)

// Credentials are the login form values. Tenant is an optional slug that
// overrides the tenant returned by the backend.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Tenant   string `json:"tenant,omitempty"`
}

// Registration is the sign-up form.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Tenant   string `json:"tenant,omitempty"`
}

// Auth creates, inspects and ends sessions.
type Auth struct {
	client  Doer
	session session.Provider
}

// NewAuth creates an Auth service.
func NewAuth(client Doer, provider session.Provider) *Auth {
	return &Auth{client: client, session: provider}
}

// Login authenticates and stores the returned tokens.
func (a *Auth) Login(ctx context.Context, credentials *Credentials) (*session.Session, error) {
	return a.authenticate(ctx, LoginPath, credentials, credentials.Tenant)
}

// Register creates an account and signs it in.
func (a *Auth) Register(ctx context.Context, registration *Registration) (*session.Session, error) {
	return a.authenticate(ctx, RegisterPath, registration, registration.Tenant)
}

func (a *Auth) authenticate(ctx context.Context, path string, body any, tenantSlug string) (*session.Session, error) {
	payload, err := call[*session.AuthPayload](ctx, a.client, path,
		request.WithMethod(http.MethodPost),
		request.WithBody(body))
	if err != nil {
		return nil, err
	}
	if payload == nil {
		payload = &session.AuthPayload{}
	}
	if err = a.session.SetAuthPayload(payload, tenantSlug); err != nil {
		return nil, err
	}
	state := a.session.State()
	return &state, nil
}

// Logout revokes the refresh token on a best effort basis and always clears the session.
func (a *Auth) Logout(ctx context.Context) error {
	state := a.session.State()
	if state.RefreshToken != "" {
		_, _ = a.client.Do(ctx, LogoutPath,
			request.WithMethod(http.MethodPost),
			request.WithBody(map[string]string{"refreshToken": state.RefreshToken}))
	}
	return a.session.Clear()
}

// Me fetches the current identity and merges it into the session.
func (a *Auth) Me(ctx context.Context) (session.User, error) {
	user, err := call[session.User](ctx, a.client, MePath)
	if err != nil {
		return nil, err
	}
	if err = a.session.UpdateUser(user); err != nil {
		return nil, err
	}
	return a.session.State().User, nil
}

// SwitchTenant changes the tenant scoping applied to subsequent calls.
func (a *Auth) SwitchTenant(tenantID, tenantSlug string) error {
	state := a.session.State()
	if !state.Authenticated() {
		return session.ErrNotAuthenticated
	}
	payload := &session.AuthPayload{
		AccessToken:  state.AccessToken,
		RefreshToken: state.RefreshToken,
		SessionID:    state.SessionID,
		TenantID:     tenantID,
		User:         state.User,
	}
	if !state.ExpiresAt.IsZero() {
		if remaining := int(time.Until(state.ExpiresAt).Seconds()); remaining > 0 {
			payload.ExpiresIn = remaining
		}
	}
	return a.session.SetAuthPayload(payload, tenantSlug)
}
