package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "tenantadmin:session"

// RedisClient is the subset of *redis.Client used by RedisPersister.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisPersister stores the session record under a single redis key.
type RedisPersister struct {
	client RedisClient
	key    string
	ttl    time.Duration
}

// RedisOption configures a RedisPersister.
type RedisOption func(*RedisPersister)

// WithRedisKey overrides the default key.
func WithRedisKey(key string) RedisOption {
	return func(p *RedisPersister) {
		if key != "" {
			p.key = key
		}
	}
}

// WithRedisTTL expires the record after ttl; zero keeps it forever.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(p *RedisPersister) {
		p.ttl = ttl
	}
}

func (p *RedisPersister) Load(ctx context.Context) (*Session, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (p *RedisPersister) Save(ctx context.Context, session *Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, p.key, data, p.ttl).Err()
}

func (p *RedisPersister) Delete(ctx context.Context) error {
	return p.client.Del(ctx, p.key).Err()
}

// NewRedisPersister creates a persister backed by client, typically a *redis.Client.
func NewRedisPersister(client RedisClient, options ...RedisOption) *RedisPersister {
	ret := &RedisPersister{client: client, key: defaultRedisKey}
	for _, opt := range options {
		if opt != nil {
			opt(ret)
		}
	}
	return ret
}
