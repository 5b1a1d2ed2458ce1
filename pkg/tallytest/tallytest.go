// Package tallytest mints sessions and CSRF tokens for tests of code that
// sits in front of, or beside, a tally server sharing its secrets.
package tallytest

import (
	"net/http"
	"time"

	"git.sr.ht/~jakintosh/tally/internal/csrf"
	"git.sr.ht/~jakintosh/tally/internal/service"
	"git.sr.ht/~jakintosh/tally/pkg/tokens"
)

// Keys holds the two secrets a tally server is configured with.
type Keys struct {
	SessionKey   []byte
	CSRFKey      []byte
	IssuerDomain string
}

// Session holds a minted session and a matching CSRF token.
type Session struct {
	Subject     string
	CookieValue string // "Bearer <token>"
	CSRF        string
	ExpiresAt   time.Time
}

// NewSession mints a session for subject valid for lifetime, or for the
// default lifetime when lifetime is zero.
func NewSession(keys Keys, subject string, lifetime time.Duration) (*Session, error) {
	var opts []tokens.Option
	if lifetime > 0 {
		opts = append(opts, tokens.WithLifetime(lifetime))
	}
	issuer, _ := tokens.InitServer(keys.SessionKey, keys.IssuerDomain, opts...)

	token, err := issuer.IssueSessionToken(subject)
	if err != nil {
		return nil, err
	}
	csrfToken, err := csrf.NewValidator(keys.CSRFKey).Issue()
	if err != nil {
		return nil, err
	}

	return &Session{
		Subject:     subject,
		CookieValue: service.CookieValue(token),
		CSRF:        csrfToken,
		ExpiresAt:   token.Expiration(),
	}, nil
}

// Cookie returns the access_token cookie for sess, with the attributes the
// server sets.
func Cookie(sess *Session) *http.Cookie {
	return &http.Cookie{
		Name:     "access_token",
		Value:    sess.CookieValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// Authorize adds the session cookie and CSRF header to req.
func Authorize(req *http.Request, sess *Session) {
	req.AddCookie(&http.Cookie{Name: "access_token", Value: sess.CookieValue})
	req.Header.Set(csrf.HeaderName, sess.CSRF)
}
