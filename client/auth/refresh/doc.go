// Package refresh calls the backend refresh endpoint. It performs exactly one
// network call per Refresh, never retries and never touches the session;
// storing the result is the request client's job.
package refresh
