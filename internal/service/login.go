package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"git.sr.ht/~jakintosh/tally/pkg/tokens"
)

// Login authenticates email and password and mints a session token. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *Service) Login(
	ctx context.Context,
	email string,
	password string,
) (
	*tokens.SessionToken,
	error,
) {
	token, err := s.login(ctx, email, password)
	s.metrics.RecordAuth("login", outcome(err))
	return token, err
}

func (s *Service) login(
	ctx context.Context,
	email string,
	password string,
) (
	*tokens.SessionToken,
	error,
) {
	if err := s.authenticate(ctx, normalizeEmail(email), password); err != nil {
		return nil, err
	}
	return s.mint(normalizeEmail(email))
}

func (s *Service) authenticate(
	ctx context.Context,
	email string,
	password string,
) error {
	cred, err := s.credentials.GetCredential(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.hasher.VerifyMissing(password)
			return ErrInvalidCredentials
		}
		return fmt.Errorf("%w: failed to retrieve credential: %v", ErrInternal, err)
	}

	if !s.hasher.Verify(password, cred.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}

// Logout ends the session from the client's point of view. Sessions are
// stateless, so there is nothing to revoke; the caller clears the cookie.
// A still-valid session only names the subject in the log and is not
// counted as a verification.
func (s *Service) Logout(cookieValue string) {
	s.metrics.RecordAuth("logout", "ok")
	if token, err := s.verify(cookieValue); err == nil {
		slog.Debug("logout", "subject", token.Subject())
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
