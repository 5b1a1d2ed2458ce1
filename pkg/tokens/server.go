package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Server implements both Issuer and Validator. It holds the symmetric
// session secret used to sign and verify tokens. Create a Server instance
// using InitServer.
type Server struct {
	secret       []byte
	issuerDomain string
	lifetime     time.Duration
	now          func() time.Time
}

//
// Issuer interface

func (server *Server) IssueSessionToken(
	subject string,
) (*SessionToken, error) {

	now := server.now().Truncate(jwt.TimePrecision)
	return server.issue(subject, now, now.Add(server.lifetime))
}

// RotateSessionToken mints a successor to previous for the same subject. The
// successor always expires strictly after previous, even when both are minted
// at the same instant.
func (server *Server) RotateSessionToken(
	previous *SessionToken,
) (*SessionToken, error) {

	now := server.now().Truncate(jwt.TimePrecision)
	expiration := now.Add(server.lifetime)

	// a decoded expiry can read one tick early after the float round trip
	floor := previous.Expiration().Truncate(jwt.TimePrecision).Add(2 * jwt.TimePrecision)
	if expiration.Before(floor) {
		expiration = floor
	}
	return server.issue(previous.Subject(), now, expiration)
}

func (server *Server) issue(
	subject string,
	issuedAt time.Time,
	expiration time.Time,
) (*SessionToken, error) {

	token := &SessionToken{
		id:         uuid.NewString(),
		issuer:     server.issuerDomain,
		issuedAt:   issuedAt,
		expiration: expiration,
		subject:    subject,
	}

	encToken, err := encodeToken(token.intoClaims(), server.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session token: %v", err)
	}
	token.encoded = encToken

	return token, nil
}

//
// Validator interface

func (server *Server) VerificationKey() []byte {
	return server.secret
}

func (server *Server) ValidateDomain(issuerDomain string) bool {
	return issuerDomain == server.issuerDomain
}

func (server *Server) Now() time.Time {
	return server.now()
}
