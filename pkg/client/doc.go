// Package client is a Go client for the tally HTTP API.
//
// A Client keeps the access_token cookie in a cookie jar and fetches a fresh
// CSRF token before every state-changing call, so callers only deal in
// emails, passwords and resources:
//
//	c, err := client.New("https://tally.example.com")
//	if err != nil {
//	    return err
//	}
//	if _, err := c.Register(ctx, "a@b.com", "secret1"); err != nil {
//	    return err
//	}
//	if err := c.Login(ctx, "a@b.com", "secret1"); err != nil {
//	    return err
//	}
//	email, err := c.Session(ctx) // also rotates the session cookie
//
// The session cookie is marked Secure, so the jar only sends it over HTTPS.
//
// # Errors
//
// Non-2xx responses are returned as *APIError carrying the status code and
// the server's detail message:
//
//	var apiErr *client.APIError
//	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
//	    // log in again
//	}
package client
