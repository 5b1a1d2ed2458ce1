package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"git.sr.ht/~jakintosh/tally/internal/api"
	"git.sr.ht/~jakintosh/tally/internal/csrf"
	"git.sr.ht/~jakintosh/tally/internal/service"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tally: %d %s", e.Status, e.Detail)
}

func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient uses hc for transport. Its Jar is replaced so the session
// cookie is tracked per Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		copied := *hc
		copied.Jar = c.http.Jar
		c.http = &copied
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %v", err)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SessionCookie returns the current access_token value, or "" if none.
func (c *Client) SessionCookie() string {
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == api.SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// FetchCSRF returns a fresh CSRF token.
func (c *Client) FetchCSRF(ctx context.Context) (string, error) {
	var resp api.CSRFResponse
	if err := c.do(ctx, http.MethodGet, "/api/csrftoken", "", nil, &resp); err != nil {
		return "", err
	}
	return resp.CSRFToken, nil
}

func (c *Client) Register(ctx context.Context, email, password string) (*service.RegisteredUser, error) {
	var user service.RegisteredUser
	req := api.CredentialsRequest{Email: email, Password: password}
	if err := c.doWithCSRF(ctx, http.MethodPost, "/api/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	req := api.CredentialsRequest{Email: email, Password: password}
	return c.doWithCSRF(ctx, http.MethodPost, "/api/login", req, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doWithCSRF(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// Session returns the email of the current session and rotates its cookie.
func (c *Client) Session(ctx context.Context) (string, error) {
	var resp api.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/user", "", nil, &resp); err != nil {
		return "", err
	}
	return resp.Email, nil
}

func (c *Client) CreateTodo(ctx context.Context, title, description string) (*service.Todo, error) {
	var todo service.Todo
	req := api.TodoRequest{Title: title, Description: description}
	if err := c.doWithCSRF(ctx, http.MethodPost, "/api/todo", req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) ListTodos(ctx context.Context) ([]service.Todo, error) {
	var todos []service.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todo", "", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.doWithCSRF(ctx, http.MethodDelete, "/api/todo/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateBooking(ctx context.Context, req api.BookingRequest) (*service.Booking, error) {
	var booking service.Booking
	if err := c.doWithCSRF(ctx, http.MethodPost, "/api/booking", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]service.Booking, error) {
	var bookings []service.Booking
	if err := c.do(ctx, http.MethodGet, "/api/booking", "", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) doWithCSRF(ctx context.Context, method, path string, body, out any) error {
	token, err := c.FetchCSRF(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch csrf token: %w", err)
	}
	return c.do(ctx, method, path, token, body, out)
}

func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	csrfToken string,
	body any,
	out any,
) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if csrfToken != "" {
		req.Header.Set(csrf.HeaderName, csrfToken)
	}

	slog.Debug("tally request", "method", method, "path", path)
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		var detail api.ErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&detail)
		return &APIError{Status: res.StatusCode, Detail: detail.Detail}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}
