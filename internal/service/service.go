// Package service implements the session protocol for tally: credential
// registration and login, stateless session verification with sliding
// expiry, and the CSRF gate in front of state-changing calls. It also hosts
// the thin todo and booking operations that sit behind that gate.
package service

import (
	"errors"

	"git.sr.ht/~jakintosh/tally/internal/metrics"
	"git.sr.ht/~jakintosh/tally/internal/password"
	"git.sr.ht/~jakintosh/tally/pkg/tokens"
)

var (
	ErrNoSession          = errors.New("no session")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrCSRFInvalid        = errors.New("csrf token invalid")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrWeakPassword       = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInternal           = errors.New("internal error")
)

// MinPasswordLength is the shortest password Register accepts, in characters.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password Register accepts, in bytes.
const MaxPasswordBytes = password.MaxLength

// CSRFValidator issues and checks anti-forgery tokens.
type CSRFValidator interface {
	Issue() (string, error)
	Validate(token string) error
}

// Service coordinates the session protocol. It holds only immutable
// collaborators and is safe for concurrent use.
type Service struct {
	credentials    CredentialStore
	todos          TodoStore
	bookings       BookingStore
	tokenIssuer    tokens.Issuer
	tokenValidator tokens.Validator
	csrf           CSRFValidator
	hasher         *password.Hasher
	metrics        *metrics.Metrics
}

func New(
	store Store,
	issuer tokens.Issuer,
	validator tokens.Validator,
	csrf CSRFValidator,
	hasher *password.Hasher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		credentials:    store,
		todos:          store,
		bookings:       store,
		tokenIssuer:    issuer,
		tokenValidator: validator,
		csrf:           csrf,
		hasher:         hasher,
		metrics:        m,
	}
}

// outcome names an error for metric labels.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoSession):
		return "no_session"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenInvalid):
		return "token_invalid"
	case errors.Is(err, ErrCSRFInvalid):
		return "csrf_invalid"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, ErrWeakPassword):
		return "weak_password"
	case errors.Is(err, ErrPasswordTooLong):
		return "password_too_long"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
