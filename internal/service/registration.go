package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Register creates a credential for email. The password length is checked
// against both bounds before the store is touched; duplicate emails are rejected by the store's
// uniqueness constraint, never by a prior lookup.
func (s *Service) Register(
	ctx context.Context,
	email string,
	password string,
) (
	*RegisteredUser,
	error,
) {
	user, err := s.register(ctx, normalizeEmail(email), password)
	s.metrics.RecordRegistration(outcome(err))
	return user, err
}

func (s *Service) register(
	ctx context.Context,
	email string,
	password string,
) (
	*RegisteredUser,
	error,
) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	cred := Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.credentials.InsertCredential(ctx, cred); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: failed to insert credential: %v", ErrInternal, err)
	}

	slog.Info("registered", "id", cred.ID)
	return &RegisteredUser{ID: cred.ID, Email: cred.Email}, nil
}
