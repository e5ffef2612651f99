package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Store.
type Option func(*Store)

// WithPersister sets the durable backend the session is mirrored to.
func WithPersister(persister Persister) Option {
	return func(s *Store) {
		s.persister = persister
	}
}

// WithCookieSync sets the side channel that receives the bare access token.
func WithCookieSync(cookies CookieSync) Option {
	return func(s *Store) {
		s.cookies = cookies
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides time.Now, used to compute token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is the default Provider. Reads are served from memory; every write
// goes to the persister and the cookie side channel before memory changes.
type Store struct {
	mu        sync.RWMutex
	state     Session
	persister Persister
	cookies   CookieSync
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates an idle store. Call Restore to load a persisted session.
func New(options ...Option) *Store {
	ret := &Store{
		state:  Session{Status: StatusIdle},
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// State returns a snapshot of the current session.
func (s *Store) State() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Restore loads the persisted session, if any. The store reports loading
// while the persister is read; a write made meanwhile wins over the record.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.persister == nil {
		s.state = cleared()
		s.mu.Unlock()
		return nil
	}
	s.state.Status = StatusLoading
	persister := s.persister
	s.mu.Unlock()

	persisted, err := persister.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusLoading {
		return nil
	}
	if err != nil {
		s.state = cleared()
		return fmt.Errorf("session: failed to restore: %w", err)
	}
	if persisted == nil || persisted.AccessToken == "" || persisted.RefreshToken == "" {
		s.state = cleared()
		return nil
	}
	persisted.Status = StatusAuthenticated
	if s.cookies != nil {
		if err = s.cookies.SyncAccessToken(persisted.AccessToken); err != nil {
			s.state = cleared()
			return fmt.Errorf("session: failed to sync access token cookie: %w", err)
		}
	}
	s.state = *persisted
	s.logger.Debug().Str("tenant", persisted.TenantSlug).Msg("session restored")
	return nil
}

// SetAuthPayload replaces the tokens, tenant scoping and, when the payload
// carries one, the user. A non-empty tenantSlug wins over the payload slug.
func (s *Store) SetAuthPayload(payload *AuthPayload, tenantSlug string) error {
	if payload == nil || payload.AccessToken == "" || payload.RefreshToken == "" {
		return ErrIncompleteTokens
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	next.AccessToken = payload.AccessToken
	next.RefreshToken = payload.RefreshToken
	next.SessionID = payload.SessionID
	next.ExpiresAt = time.Time{}
	if payload.ExpiresIn > 0 {
		next.ExpiresAt = s.now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}
	if payload.User != nil {
		next.User = maps.Clone(payload.User)
	}
	if payload.TenantID != "" {
		next.TenantID = payload.TenantID
	}
	if tenantSlug == "" {
		tenantSlug = payload.TenantSlug
	}
	if tenantSlug != "" {
		next.TenantSlug = tenantSlug
	}
	next.Status = StatusAuthenticated
	return s.commit(next)
}

// UpdateUser merges partial into the current user.
func (s *Store) UpdateUser(partial User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.AccessToken == "" {
		return ErrNotAuthenticated
	}
	next := s.state.clone()
	if next.User == nil {
		next.User = User{}
	}
	maps.Copy(next.User, partial)
	return s.commit(next)
}

// Clear drops every credential. Memory is always cleared, even when the
// cookie or the persister cannot be updated; those failures are returned joined.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cleared()
	var errs []error
	if s.cookies != nil {
		if err := s.cookies.SyncAccessToken(""); err != nil {
			errs = append(errs, fmt.Errorf("session: failed to expire access token cookie: %w", err))
		}
	}
	if err := s.write(s.state); err != nil {
		errs = append(errs, fmt.Errorf("session: failed to delete persisted session: %w", err))
	}
	return errors.Join(errs...)
}

// commit must be called with s.mu held.
func (s *Store) commit(next Session) error {
	prev := s.state
	if err := s.write(next); err != nil {
		return fmt.Errorf("session: failed to persist: %w", err)
	}
	if s.cookies != nil {
		if err := s.cookies.SyncAccessToken(next.AccessToken); err != nil {
			if rErr := s.write(prev); rErr != nil {
				s.logger.Error().Err(rErr).Msg("failed to roll back persisted session")
			}
			return fmt.Errorf("session: failed to sync access token cookie: %w", err)
		}
	}
	s.state = next
	return nil
}

func (s *Store) write(next Session) error {
	if s.persister == nil {
		return nil
	}
	ctx := context.Background()
	if next.AccessToken == "" {
		return s.persister.Delete(ctx)
	}
	return s.persister.Save(ctx, &next)
}
