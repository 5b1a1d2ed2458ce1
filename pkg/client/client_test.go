package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/tally/internal/api"
	"git.sr.ht/~jakintosh/tally/internal/testutil"
	"git.sr.ht/~jakintosh/tally/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupClient(t *testing.T) (*client.Client, *testutil.TestEnv) {
	t.Helper()
	env := testutil.SetupTestEnvWithRouter(t)
	server := httptest.NewTLSServer(env.Router)
	t.Cleanup(server.Close)

	c, err := client.New(server.URL, client.WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return c, env
}

func TestClient_SessionLifecycle(t *testing.T) {
	t.Parallel()
	c, env := setupClient(t)
	ctx := context.Background()

	// register returns the public view
	user, err := c.Register(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.NotEmpty(t, user.ID)

	// login stores a bearer cookie in the jar
	require.NoError(t, c.Login(ctx, "a@b.com", "secret1"))
	first := c.SessionCookie()
	assert.True(t, strings.HasPrefix(first, "Bearer "), "cookie = %q", first)

	// session rotates it
	env.Clock.Advance(time.Second)
	email, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)
	assert.NotEqual(t, first, c.SessionCookie())

	// logout empties it and the session is gone
	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.SessionCookie())

	_, err = c.Session(ctx)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr), "err = %v", err)
	assert.True(t, apiErr.Unauthorized())
}

func TestClient_LoginFailure(t *testing.T) {
	t.Parallel()
	c, env := setupClient(t)
	env.RegisterTestUser(t, "a@b.com", "secret1")

	err := c.Login(context.Background(), "a@b.com", "wrong-password")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid email or password", apiErr.Detail)
	assert.Empty(t, c.SessionCookie())
}

func TestClient_Resources(t *testing.T) {
	t.Parallel()
	c, _ := setupClient(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, c.Login(ctx, "a@b.com", "secret1"))

	todo, err := c.CreateTodo(ctx, "title", "description")
	require.NoError(t, err)
	todos, err := c.ListTodos(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
	require.NoError(t, c.DeleteTodo(ctx, todo.ID))

	booking, err := c.CreateBooking(ctx, api.BookingRequest{
		CustomerID:      "c1",
		AppointmentDate: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Details:         "first",
	})
	require.NoError(t, err)
	bookings, err := c.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, booking.ID, bookings[0].ID)
}

func TestClient_InsecureTransportDropsCookie(t *testing.T) {
	t.Parallel()
	env := testutil.SetupTestEnvWithRouter(t)
	server := httptest.NewServer(env.Router)
	t.Cleanup(server.Close)

	c, err := client.New(server.URL)
	require.NoError(t, err)
	ctx := context.Background()

	// Secure cookies are never replayed over plain http
	_, err = c.Register(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, c.Login(ctx, "a@b.com", "secret1"))
	_, err = c.Session(ctx)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unauthorized())
}
