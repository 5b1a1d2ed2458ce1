package tokens

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenClaims is the claims section of a session JWT. It sits between
// the JSON representation in the token and the [SessionToken] Go struct.
type SessionTokenClaims struct {
	jwt.RegisteredClaims
}

// ==============================================

// SessionToken is a self-contained, stateless proof of an authenticated
// session. Nothing about it is stored server side; it is valid iff its
// signature matches the server secret and the current time is before its
// expiration.
type SessionToken struct {
	id         string
	issuer     string
	issuedAt   time.Time
	expiration time.Time
	subject    string
	encoded    string
}

func (t *SessionToken) ID() string            { return t.id }
func (t *SessionToken) Issuer() string        { return t.issuer }
func (t *SessionToken) IssuedAt() time.Time   { return t.issuedAt }
func (t *SessionToken) Expiration() time.Time { return t.expiration }
func (t *SessionToken) Subject() string       { return t.subject }
func (t *SessionToken) Encoded() string       { return t.encoded }

func (token *SessionToken) Decode(encToken string, validator Validator) error {
	claims, err := decodeToken(encToken, validator)
	if err != nil {
		slog.Debug("session token rejected", "reason", err.Context())
		return err
	}
	token.fromClaims(claims, encToken)
	return nil
}

func (token *SessionToken) intoClaims() *SessionTokenClaims {
	return &SessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        token.id,
			Issuer:    token.issuer,
			Subject:   token.subject,
			IssuedAt:  jwt.NewNumericDate(token.issuedAt),
			ExpiresAt: jwt.NewNumericDate(token.expiration),
		},
	}
}

func (token *SessionToken) fromClaims(claims *SessionTokenClaims, encToken string) {
	token.id = claims.ID
	token.issuer = claims.Issuer
	token.subject = claims.Subject
	if claims.IssuedAt != nil {
		token.issuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		token.expiration = claims.ExpiresAt.Time
	}
	token.encoded = encToken
}
