package tenantadmin

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/viant/tenantadmin/admin"
	"github.com/viant/tenantadmin/client/auth/refresh"
	"github.com/viant/tenantadmin/client/request"
	"github.com/viant/tenantadmin/client/session"
	"github.com/viant/tenantadmin/config"
)

// Client bundles the admin services with the session and request client they share.
type Client struct {
	*admin.Service
	Session *session.Store
	API     *request.Client
	// Jar is the cookie side channel, nil unless a cookie jar path is configured.
	Jar   *session.FileJar
	redis *redis.Client
}

// Option configures New.
type Option func(*options)

type options struct {
	logger     zerolog.Logger
	registerer prometheus.Registerer
	httpClient *http.Client
	persister  session.Persister
	redis      session.RedisClient
}

// WithLogger sets the logger used by the session store and request client.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer enables request and refresh metrics.
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = registerer
	}
}

// WithHTTPClient sets the client used for API and refresh calls; it is copied, never mutated.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithPersister overrides the persister selected from the configuration.
func WithPersister(persister session.Persister) Option {
	return func(o *options) {
		o.persister = persister
	}
}

// WithRedisClient stores the session through client instead of dialing RedisAddr.
func WithRedisClient(client session.RedisClient) Option {
	return func(o *options) {
		o.redis = client
	}
}

// New wires the session store, the refresh adapter and the request client
// described by cfg, then restores the persisted session.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config was nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	ret := &Client{}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if o.httpClient != nil {
		copied := *o.httpClient
		httpClient = &copied
	}

	storeOptions := []session.Option{session.WithLogger(o.logger)}
	persister, err := ret.persister(cfg, o)
	if err != nil {
		return nil, err
	}
	if persister != nil {
		storeOptions = append(storeOptions, session.WithPersister(persister))
	}
	if cfg.CookieJar != "" {
		if ret.Jar, err = session.NewFileJar(cfg.CookieJar, cfg.BaseURL, session.WithCookieName(cfg.CookieName)); err != nil {
			_ = ret.Close()
			return nil, fmt.Errorf("failed to open cookie jar: %w", err)
		}
		storeOptions = append(storeOptions, session.WithCookieSync(ret.Jar))
		if httpClient.Jar == nil {
			httpClient.Jar = ret.Jar
		}
	}
	ret.Session = session.New(storeOptions...)
	if err = ret.Session.Restore(ctx); err != nil {
		o.logger.Warn().Err(err).Msg("unable to restore session")
	}

	var metrics *request.Metrics
	if o.registerer != nil {
		metrics = request.NewMetrics(o.registerer)
	}
	adapter := refresh.New(cfg.BaseURL, refresh.WithPath(cfg.RefreshPath), refresh.WithHTTPClient(httpClient))
	ret.API = request.New(cfg.BaseURL, ret.Session,
		request.WithHTTPClient(httpClient),
		request.WithRefresher(adapter),
		request.WithAuthPaths(cfg.LoginPath, adapter.Path()),
		request.WithLogger(o.logger),
		request.WithMetrics(metrics))
	ret.Service = admin.New(ret.API, ret.Session)
	return ret, nil
}

func (c *Client) persister(cfg *config.Config, o *options) (session.Persister, error) {
	switch {
	case o.persister != nil:
		return o.persister, nil
	case o.redis != nil || cfg.RedisAddr != "":
		client := o.redis
		if client == nil {
			c.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			client = c.redis
		}
		return session.NewRedisPersister(client, session.WithRedisKey(cfg.RedisKey), session.WithRedisTTL(cfg.RedisTTL)), nil
	case cfg.SessionURL != "":
		return session.NewFilePersister(cfg.SessionURL), nil
	}
	return nil, nil
}

// Close releases the redis connection opened by New, if any.
func (c *Client) Close() error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Close()
}
