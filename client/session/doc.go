// Package session holds the credentials of the signed-in admin: access and
// refresh tokens, tenant scoping and the last known user identity.
//
// A Store keeps the session in memory and mirrors every write to a durable
// Persister (memory, afs URL or redis) and to a CookieSync side channel that
// carries the bare access token for cookie based request paths. The request
// client only depends on the narrow Provider interface, so tests can swap in
// any implementation.
package session
