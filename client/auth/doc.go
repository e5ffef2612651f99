// Package auth contains the token endpoint integrations of the client.
//
// The refresh sub-package exchanges a refresh token for a new access token and
// is plugged into request.Client with request.WithRefresher. When a call is
// rejected with 401 Unauthorized the client refreshes once and retries the call
// with the new token.
package auth
