package request

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// Options holds per-call settings. The zero value issues a GET with the
// session credentials.
type Options struct {
	Method      string
	Body        any
	Headers     http.Header
	Query       url.Values
	AccessToken string
	TenantSlug  string
	TenantID    string
}

// Option configures a single call.
type Option func(*Options)

// WithMethod sets the HTTP method, GET by default.
func WithMethod(method string) Option {
	return func(o *Options) {
		o.Method = method
	}
}

// WithBody sets a JSON serializable body.
func WithBody(body any) Option {
	return func(o *Options) {
		o.Body = body
	}
}

// WithForm sets a multipart body.
func WithForm(form *FormData) Option {
	return func(o *Options) {
		o.Body = form
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) Option {
	return func(o *Options) {
		if o.Headers == nil {
			o.Headers = http.Header{}
		}
		o.Headers.Add(key, value)
	}
}

// WithQuery sets query parameters appended to the URL.
func WithQuery(query url.Values) Option {
	return func(o *Options) {
		o.Query = query
	}
}

// WithAccessToken overrides the session access token for this call only.
func WithAccessToken(token string) Option {
	return func(o *Options) {
		o.AccessToken = token
	}
}

// WithTenantSlug overrides the session tenant slug for this call only.
func WithTenantSlug(slug string) Option {
	return func(o *Options) {
		o.TenantSlug = slug
	}
}

// WithTenantID overrides the session tenant id for this call only.
func WithTenantID(id string) Option {
	return func(o *Options) {
		o.TenantID = id
	}
}

func newOptions(opts []Option) *Options {
	ret := &Options{Method: http.MethodGet}
	for _, opt := range opts {
		if opt != nil {
			opt(ret)
		}
	}
	return ret
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the http client used for every call.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRefresher sets the token refresh endpoint adapter.
func WithRefresher(refresher Refresher) ClientOption {
	return func(c *Client) {
		c.refresher.adapter = refresher
	}
}

// WithAuthPaths replaces the endpoints whose 401 is returned as is, by default
// /auth/login and /auth/refresh.
func WithAuthPaths(paths ...string) ClientOption {
	return func(c *Client) {
		c.authPaths = paths
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
		c.refresher.logger = logger
	}
}

// WithMetrics sets the collectors updated by the client.
func WithMetrics(metrics *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = metrics
		c.refresher.metrics = metrics
	}
}
