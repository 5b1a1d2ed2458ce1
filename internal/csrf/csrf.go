// Package csrf issues and checks the anti-forgery tokens clients echo back in
// the X-CSRF-Token header. Tokens are signed, time-stamped nonces; nothing is
// stored server side and no session state is consulted.
package csrf

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	// HeaderName is the request header a client must echo the token in.
	HeaderName = "X-CSRF-Token"
	// MaxAge is how long an issued token stays acceptable.
	MaxAge = time.Hour

	tokenName = "csrf_token"
	nonceSize = 32
)

var ErrInvalid = errors.New("csrf token invalid")

// Validator signs and verifies CSRF tokens with a secret distinct from the
// session secret.
type Validator struct {
	codec *securecookie.SecureCookie
}

func NewValidator(secret []byte) *Validator {
	codec := securecookie.New(secret, nil)
	codec.MaxAge(int(MaxAge / time.Second))
	return &Validator{codec: codec}
}

// Issue returns a fresh token.
func (v *Validator) Issue() (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to read nonce: %v", err)
	}
	token, err := v.codec.Encode(tokenName, nonce)
	if err != nil {
		return "", fmt.Errorf("failed to sign csrf token: %v", err)
	}
	return token, nil
}

// Validate returns ErrInvalid unless token was issued by this validator
// within MaxAge.
func (v *Validator) Validate(token string) error {
	if token == "" {
		return fmt.Errorf("%w: missing", ErrInvalid)
	}
	var nonce []byte
	if err := v.codec.Decode(tokenName, token, &nonce); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(nonce) != nonceSize {
		return fmt.Errorf("%w: unexpected payload", ErrInvalid)
	}
	return nil
}
