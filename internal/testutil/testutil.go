// Package testutil provides test environment setup and utilities for internal package tests.
package testutil

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/tally/internal/api"
	"git.sr.ht/~jakintosh/tally/internal/csrf"
	"git.sr.ht/~jakintosh/tally/internal/database"
	"git.sr.ht/~jakintosh/tally/internal/metrics"
	"git.sr.ht/~jakintosh/tally/internal/password"
	"git.sr.ht/~jakintosh/tally/internal/policy"
	"git.sr.ht/~jakintosh/tally/internal/service"
	"git.sr.ht/~jakintosh/tally/pkg/tokens"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	TestIssuer = "test.tally.local"
)

var (
	testSessionKey = []byte("test-session-key-0123456789abcdef")
	testCSRFKey    = []byte("test-csrf-key-0123456789abcdefghi")
)

// SessionKey returns the session secret every TestEnv signs with.
func SessionKey() []byte { return testSessionKey }

// CSRFKey returns the CSRF secret every TestEnv signs with.
func CSRFKey() []byte { return testCSRFKey }

var (
	sharedHasher     *password.Hasher
	sharedHasherOnce sync.Once
)

// getSharedHasher returns one testing-cost hasher for all tests so the
// dummy digest is built once.
func getSharedHasher() *password.Hasher {
	sharedHasherOnce.Do(func() {
		sharedHasher = password.NewHasher(password.ModeTesting)
	})
	return sharedHasher
}

// Clock is a settable time source shared by the token issuer and validator.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now().Truncate(time.Second)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestEnv provides all dependencies needed for testing
type TestEnv struct {
	DB             *database.SQLiteStore
	Service        *service.Service
	Router         http.Handler
	TokenIssuer    tokens.Issuer
	TokenValidator tokens.Validator
	CSRF           *csrf.Validator
	Clock          *Clock
	Metrics        *metrics.Metrics
	Registry       *prometheus.Registry
	Policy         *policy.Policy
}

// SetupTestEnv creates an isolated test environment with in-memory SQLite
func SetupTestEnv(
	t *testing.T,
) *TestEnv {
	t.Helper()

	// create in-memory SQLite database
	db := database.NewSQLiteStore(":memory:")

	// token issuer/validator on a controllable clock
	clock := NewClock()
	issuer, validator := tokens.InitServer(testSessionKey, TestIssuer, tokens.WithClock(clock.Now))

	csrfValidator := csrf.NewValidator(testCSRFKey)
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	// create service
	svc := service.New(
		db.Store(),
		issuer,
		validator,
		csrfValidator,
		getSharedHasher(),
		m,
	)

	// setup cleanup
	t.Cleanup(func() {
		_ = db.Close()
	})

	return &TestEnv{
		DB:             db,
		Service:        svc,
		TokenIssuer:    issuer,
		TokenValidator: validator,
		CSRF:           csrfValidator,
		Clock:          clock,
		Metrics:        m,
		Registry:       registry,
		Policy:         policy.Default(),
	}
}

// SetupTestEnvWithRouter creates TestEnv and configures the API router
func SetupTestEnvWithRouter(
	t *testing.T,
	opts ...api.Option,
) *TestEnv {
	t.Helper()
	env := SetupTestEnv(t)
	opts = append([]api.Option{
		api.WithPolicy(env.Policy),
		api.WithMetrics(env.Metrics, env.Registry),
		api.WithHealthCheck(env.DB.Ping),
	}, opts...)
	env.Router = api.New(env.Service, opts...).Router()
	return env
}

// RegisterTestUser creates a test user in the database
func (env *TestEnv) RegisterTestUser(
	t *testing.T,
	email string,
	password string,
) *service.RegisteredUser {
	t.Helper()
	user, err := env.Service.Register(context.Background(), email, password)
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
	return user
}

// IssueTestSessionToken mints a session token without going through login.
func (env *TestEnv) IssueTestSessionToken(
	t *testing.T,
	subject string,
) *tokens.SessionToken {
	t.Helper()
	token, err := env.TokenIssuer.IssueSessionToken(subject)
	if err != nil {
		t.Fatalf("failed to issue test session token: %v", err)
	}
	return token
}

// IssueTestCSRF mints a CSRF token.
func (env *TestEnv) IssueTestCSRF(
	t *testing.T,
) string {
	t.Helper()
	token, err := env.CSRF.Issue()
	if err != nil {
		t.Fatalf("failed to issue test csrf token: %v", err)
	}
	return token
}

// LoginTestUser registers email and returns a cookie value for its session.
func (env *TestEnv) LoginTestUser(
	t *testing.T,
	email string,
	password string,
) string {
	t.Helper()
	env.RegisterTestUser(t, email, password)
	token, err := env.Service.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("failed to log in test user: %v", err)
	}
	return service.CookieValue(token)
}
