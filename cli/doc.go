// Package cli implements tenantctl, a command line client for the admin API.
//
//	tenantctl -u https://admin.acme.test/api login -m admin@acme.test -p secret
//	tenantctl tenants -q acme
//	tenantctl get /roles -q search=editor
//	tenantctl logout
package cli
