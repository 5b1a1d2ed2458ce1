package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"git.sr.ht/~jakintosh/tally/pkg/tokens"
)

// BearerScheme prefixes the session token inside the cookie value.
const BearerScheme = "Bearer"

// CookieValue formats a session token the way it is stored client side.
func CookieValue(token *tokens.SessionToken) string {
	return BearerScheme + " " + token.Encoded()
}

// IssueCSRF mints a token the client must echo on state-changing calls.
func (s *Service) IssueCSRF() (string, error) {
	token, err := s.csrf.Issue()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}
	s.metrics.RecordTokenIssued("csrf")
	return token, nil
}

// ValidateCSRF checks the token presented in the CSRF header.
func (s *Service) ValidateCSRF(csrfHeader string) error {
	if err := s.csrf.Validate(csrfHeader); err != nil {
		return fmt.Errorf("%w: %v", ErrCSRFInvalid, err)
	}
	return nil
}

// Verify returns the subject of the session carried by cookieValue.
func (s *Service) Verify(cookieValue string) (string, error) {
	token, err := s.verify(cookieValue)
	s.metrics.RecordAuth("verify", outcome(err))
	if err != nil {
		return "", err
	}
	return token.Subject(), nil
}

// VerifyAndRotate verifies the session and mints a replacement token for the
// same subject with a fresh expiry window.
func (s *Service) VerifyAndRotate(cookieValue string) (*tokens.SessionToken, string, error) {
	token, subject, err := s.verifyAndRotate(cookieValue)
	s.metrics.RecordAuth("verify_and_rotate", outcome(err))
	return token, subject, err
}

// VerifyCSRFAndRotate gates a state-changing call. The CSRF header is checked
// first; the session is not inspected at all when it fails.
func (s *Service) VerifyCSRFAndRotate(
	cookieValue string,
	csrfHeader string,
) (
	*tokens.SessionToken,
	string,
	error,
) {
	if err := s.ValidateCSRF(csrfHeader); err != nil {
		s.metrics.RecordAuth("verify_csrf_and_rotate", outcome(err))
		return nil, "", err
	}
	token, subject, err := s.verifyAndRotate(cookieValue)
	s.metrics.RecordAuth("verify_csrf_and_rotate", outcome(err))
	return token, subject, err
}

func (s *Service) verifyAndRotate(cookieValue string) (*tokens.SessionToken, string, error) {
	current, err := s.verify(cookieValue)
	if err != nil {
		return nil, "", err
	}
	next, err := s.tokenIssuer.RotateSessionToken(current)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to rotate session token: %v", ErrInternal, err)
	}
	s.metrics.RecordTokenIssued("session")
	return next, next.Subject(), nil
}

func (s *Service) verify(cookieValue string) (*tokens.SessionToken, error) {
	if cookieValue == "" {
		return nil, ErrNoSession
	}
	encoded, err := parseBearer(cookieValue)
	if err != nil {
		return nil, err
	}

	token := &tokens.SessionToken{}
	if err := token.Decode(encoded, s.tokenValidator); err != nil {
		if errors.Is(err, tokens.ErrTokenExpired()) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return token, nil
}

func (s *Service) mint(subject string) (*tokens.SessionToken, error) {
	token, err := s.tokenIssuer.IssueSessionToken(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to issue session token: %v", ErrInternal, err)
	}
	s.metrics.RecordTokenIssued("session")
	return token, nil
}

// parseBearer splits "<scheme> <token>" on the first whitespace. The scheme
// must be exactly BearerScheme and the token must be non-empty.
func parseBearer(cookieValue string) (string, error) {
	i := strings.IndexFunc(cookieValue, unicode.IsSpace)
	if i < 0 {
		return "", fmt.Errorf("%w: missing authorization scheme", ErrTokenInvalid)
	}
	scheme, rest := cookieValue[:i], strings.TrimSpace(cookieValue[i+1:])
	if scheme != BearerScheme {
		return "", fmt.Errorf("%w: unsupported authorization scheme %q", ErrTokenInvalid, scheme)
	}
	if rest == "" {
		return "", fmt.Errorf("%w: empty bearer token", ErrTokenInvalid)
	}
	return rest, nil
}
