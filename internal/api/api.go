// Package api is the HTTP boundary of tally. It translates requests into
// session protocol calls, keeps the access_token cookie in step with the
// token the protocol hands back, and maps protocol errors onto status codes.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"git.sr.ht/~jakintosh/tally/internal/metrics"
	"git.sr.ht/~jakintosh/tally/internal/policy"
	"git.sr.ht/~jakintosh/tally/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

type API struct {
	service       *service.Service
	policy        *policy.Policy
	metrics       *metrics.Metrics
	gatherer      prometheus.Gatherer
	allowedOrigin string
	ping          func() error
}

type Option func(*API)

// WithPolicy sets the endpoint policy. Without it every read requires a
// session.
func WithPolicy(p *policy.Policy) Option {
	return func(a *API) { a.policy = p }
}

// WithMetrics instruments every route and serves gatherer at /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(a *API) {
		a.metrics = m
		a.gatherer = gatherer
	}
}

// WithAllowedOrigin enables credentialed CORS for a single origin.
func WithAllowedOrigin(origin string) Option {
	return func(a *API) { a.allowedOrigin = origin }
}

// WithHealthCheck makes /healthz report failure when ping does.
func WithHealthCheck(ping func() error) Option {
	return func(a *API) { a.ping = ping }
}

func New(svc *service.Service, opts ...Option) *API {
	a := &API{
		service: svc,
		policy:  policy.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse acknowledges calls that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

func decodeRequest[T any](req *T, w http.ResponseWriter, r *http.Request) bool {
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		logApiErr(r, "bad json request")
		writeJson(w, http.StatusBadRequest, ErrorResponse{Detail: "malformed request body"})
		return false
	}
	return true
}

func returnJson(data any, w http.ResponseWriter) {
	writeJson(w, http.StatusOK, data)
}

func writeJson(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func logApiErr(r *http.Request, msg string) {
	slog.Warn("api error", "method", r.Method, "path", r.URL.Path, "msg", msg)
}

// writeError maps service errors onto a status and a client-safe detail.
// Internal causes are logged, never written.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, service.ErrNoSession):
		status, detail = http.StatusUnauthorized, "no session: cookie missing or cleared"
	case errors.Is(err, service.ErrTokenExpired):
		status, detail = http.StatusUnauthorized, "session expired"
	case errors.Is(err, service.ErrTokenInvalid):
		status, detail = http.StatusUnauthorized, "session token invalid"
	case errors.Is(err, service.ErrCSRFInvalid):
		status, detail = http.StatusUnauthorized, "csrf token invalid"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, detail = http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, service.ErrEmailTaken):
		status, detail = http.StatusBadRequest, "email is already taken"
	case errors.Is(err, service.ErrWeakPassword):
		status, detail = http.StatusBadRequest, "password too short"
	case errors.Is(err, service.ErrPasswordTooLong):
		status, detail = http.StatusBadRequest, "password too long"
	case errors.Is(err, service.ErrInvalidInput):
		status, detail = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		status, detail = http.StatusNotFound, err.Error()
	}

	if status == http.StatusInternalServerError {
		slog.Error("api internal error", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		logApiErr(r, err.Error())
	}
	writeJson(w, status, ErrorResponse{Detail: detail})
}
