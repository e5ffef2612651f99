// Package client groups the building blocks of the admin API client.
//
//   - session: the session store and its persistence backends
//   - request: the request client and refresh coordination
//   - auth/refresh: the token refresh endpoint adapter
//   - auth/mock: an in-process admin backend for tests
package client
