package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viant/tenantadmin/client/session"
)

const (
	HeaderTenantSlug = "x-tenant-slug"
	HeaderTenantID   = "x-tenant-id"
	HeaderRequestID  = "x-request-id"
)

var defaultAuthPaths = []string{"/auth/login", "/auth/refresh"}

// Client is the single entry point for outbound API calls.
type Client struct {
	baseURL    string
	basePath   string
	session    session.Provider
	httpClient *http.Client
	refresher  *refresher
	authPaths  []string
	logger     zerolog.Logger
	metrics    *Metrics
}

// New creates a client for baseURL reading credentials from provider.
func New(baseURL string, provider session.Provider, options ...ClientOption) *Client {
	ret := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    provider,
		httpClient: http.DefaultClient,
		authPaths:  defaultAuthPaths,
		logger:     zerolog.Nop(),
	}
	if parsed, err := url.Parse(ret.baseURL); err == nil {
		ret.basePath = parsed.Path
	}
	ret.refresher = &refresher{session: provider, logger: ret.logger}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Session returns the session provider the client reads from.
func (c *Client) Session() session.Provider {
	return c.session
}

// Metrics returns the collectors the client updates, nil when metrics are disabled.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// Do executes the call described by path and opts. A 401 outside the auth
// endpoints is retried once after a token refresh; the caller only sees the
// outcome of the retry.
func (c *Client) Do(ctx context.Context, path string, opts ...Option) (*Result, error) {
	options := newOptions(opts)
	state := c.session.State()
	token, fromSession := options.AccessToken, false
	if token == "" {
		token, fromSession = state.AccessToken, state.AccessToken != ""
	}
	result, err := c.do(ctx, path, options, token, &state)
	if err == nil || !IsStatus(err, http.StatusUnauthorized) || c.isAuthPath(path) {
		return result, err
	}
	stale := ""
	if fromSession {
		stale = token
	}
	fresh, rErr := c.refresher.token(ctx, stale)
	if rErr != nil {
		c.logger.Warn().Err(rErr).Str("path", path).Msg("unable to recover from unauthorized response")
		return nil, err
	}
	// a single replay; a second 401 is returned to the caller as is
	state = c.session.State()
	return c.do(ctx, path, options, fresh, &state)
}

// Get is shorthand for Do with GET.
func (c *Client) Get(ctx context.Context, path string, opts ...Option) (*Result, error) {
	return c.Do(ctx, path, append([]Option{WithMethod(http.MethodGet)}, opts...)...)
}

// Post is shorthand for Do with POST and a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...Option) (*Result, error) {
	return c.Do(ctx, path, append([]Option{WithMethod(http.MethodPost), WithBody(body)}, opts...)...)
}

func (c *Client) do(ctx context.Context, path string, options *Options, token string, state *session.Session) (*Result, error) {
	req, err := c.newRequest(ctx, path, options, token, state)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, 0, started)
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	c.metrics.ObserveRequest(req.Method, resp.StatusCode, started)
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Dur("elapsed", time.Since(started)).
		Msg("api request")

	payload := ParsePayload(body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewError(resp.StatusCode, payload)
	}
	return &Result{Status: resp.StatusCode, Header: resp.Header, Body: body, Data: payload}, nil
}

func (c *Client) newRequest(ctx context.Context, path string, options *Options, token string, state *session.Session) (*http.Request, error) {
	URL, err := c.resolveURL(path, options.Query)
	if err != nil {
		return nil, err
	}
	var body io.Reader
	contentType := ""
	switch actual := options.Body.(type) {
	case nil:
	case *FormData:
		buf, formContentType, err := actual.encode()
		if err != nil {
			return nil, fmt.Errorf("failed to encode form: %w", err)
		}
		body, contentType = buf, formContentType
	default:
		data, err := json.Marshal(actual)
		if err != nil {
			return nil, fmt.Errorf("failed to encode body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}
	method := options.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, body)
	if err != nil {
		return nil, err
	}
	for key, values := range options.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if slug := firstNonEmpty(options.TenantSlug, state.TenantSlug); slug != "" {
		req.Header.Set(HeaderTenantSlug, slug)
	}
	if id := firstNonEmpty(options.TenantID, state.TenantID); id != "" {
		req.Header.Set(HeaderTenantID, id)
	}
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	return req, nil
}

func (c *Client) resolveURL(path string, query url.Values) (string, error) {
	URL := path
	if !IsAbsoluteURL(path) {
		URL = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(query) == 0 {
		return URL, nil
	}
	parsed, err := url.Parse(URL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", URL, err)
	}
	values := parsed.Query()
	for key, items := range query {
		for _, item := range items {
			values.Add(key, item)
		}
	}
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

func (c *Client) isAuthPath(path string) bool {
	target := c.endpointPath(path)
	if target == "" {
		return false
	}
	for _, candidate := range c.authPaths {
		if candidate = c.endpointPath(candidate); candidate != "" && candidate != "/" && candidate == target {
			return true
		}
	}
	return false
}

// endpointPath returns the path of location relative to the base URL path,
// with a leading slash and no trailing one.
func (c *Client) endpointPath(location string) string {
	resolved, err := c.resolveURL(location, nil)
	if err != nil {
		return ""
	}
	parsed, err := url.Parse(resolved)
	if err != nil {
		return ""
	}
	path := "/" + strings.Trim(parsed.Path, "/")
	if base := "/" + strings.Trim(c.basePath, "/"); base != "/" && strings.HasPrefix(path+"/", base+"/") {
		path = "/" + strings.Trim(strings.TrimPrefix(path, base), "/")
	}
	return path
}

// IsAbsoluteURL reports whether location carries its own scheme and host.
func IsAbsoluteURL(location string) bool {
	parsed, err := url.Parse(location)
	return err == nil && parsed.IsAbs() && parsed.Host != ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
