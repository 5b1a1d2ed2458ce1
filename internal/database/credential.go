package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"git.sr.ht/~jakintosh/tally/internal/service"
)

func (s *SQLiteStore) InsertCredential(
	ctx context.Context,
	cred service.Credential,
) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credential (id, email, hash)
		VALUES (?1, ?2, ?3);`,
		cred.ID,
		cred.Email,
		cred.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", service.ErrEmailTaken, cred.Email)
		}
		return fmt.Errorf("couldn't insert into credential: %v", err)
	}
	return nil
}

func (s *SQLiteStore) GetCredential(
	ctx context.Context,
	email string,
) (
	*service.Credential,
	error,
) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, hash
		FROM credential c
		WHERE c.email=?1;`,
		email,
	)

	var cred service.Credential
	err := row.Scan(&cred.ID, &cred.Email, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: credential %s", service.ErrNotFound, email)
		}
		return nil, fmt.Errorf("couldn't scan credential: %v", err)
	}
	return &cred, nil
}
