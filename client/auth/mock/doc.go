// Package mock provides an in-process admin API used by tests and local demos.
//
// It serves the login, register, refresh, logout and me endpoints plus CRUD
// for tenants, users, roles and menus, all answering with the usual
// {success, data, message} envelope. Access tokens are HS256 JWTs; calling
// ExpireAccessTokens invalidates every issued access token so the next call
// gets a 401, which drives the client's refresh path.
package mock
