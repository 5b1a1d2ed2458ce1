package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLifetime is the validity window of every session token. Each
// successful verification mints a fresh token with a new window.
const DefaultLifetime = time.Hour

// Session tokens carry millisecond timestamps so that two tokens minted within
// one second still order by expiry.
func init() {
	jwt.TimePrecision = time.Millisecond
}

type validateError struct {
	context string
	err     error
}

func (t *validateError) Context() string {
	return t.context
}
func (t *validateError) Error() string {
	return fmt.Sprintf("%v", t.err)
}
func (t *validateError) Unwrap() error {
	return t.err
}

var (
	errTokenInvalid = errors.New("token invalid")
	errTokenExpired = errors.New("token expired")
)

func ErrTokenInvalid() error { return errTokenInvalid }
func ErrTokenExpired() error { return errTokenExpired }

type Issuer interface {
	IssueSessionToken(subject string) (*SessionToken, error)
	RotateSessionToken(previous *SessionToken) (*SessionToken, error)
}

type Validator interface {
	VerificationKey() []byte
	ValidateDomain(string) bool
	Now() time.Time
}

// Option adjusts a Server built by InitServer.
type Option func(*Server)

// WithLifetime overrides DefaultLifetime.
func WithLifetime(lifetime time.Duration) Option {
	return func(s *Server) { s.lifetime = lifetime }
}

// WithClock replaces time.Now as the source of issue and validation time.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func InitServer(
	secret []byte,
	issuerDomain string,
	opts ...Option,
) (
	Issuer,
	Validator,
) {
	server := &Server{
		secret:       secret,
		issuerDomain: issuerDomain,
		lifetime:     DefaultLifetime,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(server)
	}
	return server, server
}

var signingMethod = jwt.SigningMethodHS256

func encodeToken(claims jwt.Claims, secret []byte) (string, error) {
	encToken, err := jwt.NewWithClaims(signingMethod, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return encToken, nil
}

func decodeToken(tokenStr string, validator Validator) (*SessionTokenClaims, *validateError) {
	if strings.Count(tokenStr, ".") != 2 {
		return nil, &validateError{
			context: "token malformed: JWT expected three parts",
			err:     errTokenInvalid,
		}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithTimeFunc(validator.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	claims := &SessionTokenClaims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return validator.VerificationKey(), nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	if !validator.ValidateDomain(claims.Issuer) {
		return nil, &validateError{
			context: fmt.Sprintf("token claims invalid: unexpected issuer %q", claims.Issuer),
			err:     errTokenInvalid,
		}
	}
	if claims.Subject == "" {
		return nil, &validateError{
			context: "token claims invalid: missing subject",
			err:     errTokenInvalid,
		}
	}

	return claims, nil
}

func classifyParseError(err error) *validateError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return &validateError{
			context: fmt.Sprintf("token claims invalid: %v", err),
			err:     errTokenExpired,
		}
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &validateError{
			context: fmt.Sprintf("token malformed: %v", err),
			err:     errTokenInvalid,
		}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return &validateError{
			context: fmt.Sprintf("token signature illegal: %v", err),
			err:     errTokenInvalid,
		}
	default:
		return &validateError{
			context: fmt.Sprintf("token claims invalid: %v", err),
			err:     errTokenInvalid,
		}
	}
}
