// Package admin exposes typed services for the admin dashboard screens:
// authentication, tenants, users, roles and navigation menus.
//
// The services are thin consumers of the request client. They build paths
// and bodies, unwrap the backend {success, data, message} envelope and keep
// the session store in step with login, logout and profile calls.
package admin
