package refresh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/tenantadmin/client/request"
	"golang.org/x/oauth2"
)

// DefaultPath is the refresh endpoint relative to the API base URL.
const DefaultPath = "/auth/refresh"

// TokenBundle is the body returned by the refresh endpoint.
type TokenBundle struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	SessionID    string `json:"sessionId"`
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Adapter is the token refresh endpoint client.
type Adapter struct {
	baseURL    string
	path       string
	httpClient *http.Client
	now        func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithPath overrides DefaultPath.
func WithPath(path string) Option {
	return func(a *Adapter) {
		if path != "" {
			a.path = path
		}
	}
}

// WithHTTPClient sets http client
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		a.httpClient = client
	}
}

// New creates an adapter for the API at baseURL.
func New(baseURL string, options ...Option) *Adapter {
	ret := &Adapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       DefaultPath,
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Path returns the endpoint path, so the request client can exclude it from refresh handling.
func (a *Adapter) Path() string {
	return a.path
}

// Refresh exchanges refreshToken for a new token pair.
func (a *Adapter) Refresh(ctx context.Context, refreshToken string, scope request.Scope) (*oauth2.Token, error) {
	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return nil, err
	}
	URL := a.path
	if !request.IsAbsoluteURL(URL) {
		URL = a.baseURL + "/" + strings.TrimLeft(a.path, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if scope.TenantSlug != "" {
		req.Header.Set(request.HeaderTenantSlug, scope.TenantSlug)
	}
	if scope.TenantID != "" {
		req.Header.Set(request.HeaderTenantID, scope.TenantID)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, request.NewError(resp.StatusCode, request.ParsePayload(data))
	}
	bundle, err := decodeBundle(data)
	if err != nil {
		return nil, request.NewError(resp.StatusCode, request.ParsePayload(data))
	}
	return a.token(bundle), nil
}

func decodeBundle(data []byte) (*TokenBundle, error) {
	var wrapped envelope
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Success != nil && !*wrapped.Success {
		return nil, fmt.Errorf("refresh rejected: %s", wrapped.Message)
	}
	if len(wrapped.Data) > 0 && string(wrapped.Data) != "null" {
		data = wrapped.Data
	}
	bundle := &TokenBundle{}
	if err := json.Unmarshal(data, bundle); err != nil {
		return nil, err
	}
	if bundle.AccessToken == "" {
		return nil, fmt.Errorf("refresh response carried no access token")
	}
	return bundle, nil
}

func (a *Adapter) token(bundle *TokenBundle) *oauth2.Token {
	ret := &oauth2.Token{
		AccessToken:  bundle.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: bundle.RefreshToken,
	}
	if bundle.ExpiresIn > 0 {
		ret.Expiry = a.now().Add(time.Duration(bundle.ExpiresIn) * time.Second)
	} else {
		ret.Expiry = Expiry(bundle.AccessToken)
	}
	if bundle.SessionID != "" {
		ret = ret.WithExtra(map[string]interface{}{"session_id": bundle.SessionID})
	}
	return ret
}

// Expiry reads the exp claim of a JWT access token without verifying it.
// Opaque tokens yield the zero time.
func Expiry(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
