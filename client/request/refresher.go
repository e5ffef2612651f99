package request

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/tenantadmin/client/session"
	"golang.org/x/oauth2"
)

// Scope is the tenant scoping sent with a refresh call.
type Scope struct {
	TenantID   string
	TenantSlug string
}

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string, scope Scope) (*oauth2.Token, error)
}

type outcome struct {
	token string
	err   error
}

// refresher lets a single refresh run at a time. Callers arriving while one
// is in flight wait on a buffered channel and are released in arrival order.
type refresher struct {
	mux        sync.Mutex
	refreshing bool
	waiters    []chan outcome
	adapter    Refresher
	session    session.Provider
	logger     zerolog.Logger
	metrics    *Metrics
}

// token returns an access token usable for a replay. stale is the session
// token the failed request carried, empty when the caller used an override.
func (r *refresher) token(ctx context.Context, stale string) (string, error) {
	r.mux.Lock()
	if r.refreshing {
		waiter := make(chan outcome, 1)
		r.waiters = append(r.waiters, waiter)
		r.mux.Unlock()
		select {
		case result := <-waiter:
			return result.token, result.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	state := r.session.State()
	if stale != "" && state.AccessToken != "" && state.AccessToken != stale {
		// refreshed after this request captured its token
		r.mux.Unlock()
		r.metrics.IncrementRefresh("skipped")
		return state.AccessToken, nil
	}
	if state.RefreshToken == "" || r.adapter == nil {
		r.mux.Unlock()
		r.clear()
		r.metrics.IncrementRefresh("failure")
		return "", ErrNoRefreshToken
	}
	r.refreshing = true
	r.mux.Unlock()

	accessToken, err := r.refresh(ctx, &state)
	if err != nil {
		r.clear()
	}

	r.mux.Lock()
	waiters := r.waiters
	r.waiters = nil
	r.refreshing = false
	r.mux.Unlock()

	result := outcome{token: accessToken}
	if err != nil {
		result.err = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	for _, waiter := range waiters {
		waiter <- result
	}
	return result.token, result.err
}

func (r *refresher) refresh(ctx context.Context, state *session.Session) (string, error) {
	started := time.Now()
	scope := Scope{TenantID: state.TenantID, TenantSlug: state.TenantSlug}
	token, err := r.adapter.Refresh(context.WithoutCancel(ctx), state.RefreshToken, scope)
	if err == nil && (token == nil || token.AccessToken == "") {
		err = errors.New("refresh response carried no access token")
	}
	if err != nil {
		r.metrics.IncrementRefresh("failure")
		r.logger.Warn().Err(err).Str("tenant", state.TenantSlug).Msg("token refresh failed")
		return "", err
	}
	payload := &session.AuthPayload{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		SessionID:    state.SessionID,
		TenantID:     state.TenantID,
		TenantSlug:   state.TenantSlug,
		User:         state.User,
	}
	if payload.RefreshToken == "" {
		payload.RefreshToken = state.RefreshToken
	}
	if sessionID, ok := token.Extra("session_id").(string); ok && sessionID != "" {
		payload.SessionID = sessionID
	}
	if !token.Expiry.IsZero() {
		if expiresIn := int(time.Until(token.Expiry).Seconds()); expiresIn > 0 {
			payload.ExpiresIn = expiresIn
		}
	}
	if err = r.session.SetAuthPayload(payload, ""); err != nil {
		r.metrics.IncrementRefresh("failure")
		return "", fmt.Errorf("failed to store refreshed token: %w", err)
	}
	r.metrics.IncrementRefresh("success")
	r.logger.Debug().Dur("elapsed", time.Since(started)).Str("tenant", state.TenantSlug).Msg("token refreshed")
	return token.AccessToken, nil
}

func (r *refresher) clear() {
	if err := r.session.Clear(); err != nil {
		r.logger.Error().Err(err).Msg("failed to clear session")
	}
}
