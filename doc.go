// Package tenantadmin is a client for multi-tenant admin APIs.
//
// Every call goes through one request client that attaches the bearer token
// and tenant headers of the current session. When an access token expires,
// concurrent 401 responses share a single token refresh and each request is
// replayed once with the new token. A refresh that fails clears the session.
//
// Basic usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := tenantadmin.New(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//	if _, err = client.Auth.Login(ctx, &admin.Credentials{Email: email, Password: password}); err != nil {
//		log.Fatal(err)
//	}
//	tenants, err := client.Tenants.List(ctx, nil)
package tenantadmin
