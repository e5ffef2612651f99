// Package request implements the authenticated HTTP client shared by every
// admin screen.
//
// Each call resolves the URL against the API base, attaches the bearer token
// and tenant headers read from the session at call time, encodes the body as
// JSON or multipart form, and normalizes non-2xx responses into *Error.
//
// A 401 on anything but the login or refresh endpoint hands control to the
// refresh coordinator: the first caller refreshes the token pair through the
// configured Refresher while concurrent callers wait in FIFO order, then every
// caller replays its request once with the new access token. When refresh is
// impossible or rejected the session is cleared and the original 401 is
// returned.
//
// Example:
//
//	client := request.New("https://api.example.com/api", store,
//		request.WithRefresher(refresh.New("https://api.example.com/api")))
//	result, err := client.Do(ctx, "/tenants")
//	if err != nil {
//		var apiErr *request.Error
//		if errors.As(err, &apiErr) {
//			fmt.Println(apiErr.Status, apiErr.Message)
//		}
//	}
package request
