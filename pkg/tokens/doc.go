// Package tokens provides session token issuing and validation for tally.
//
// Session tokens are HS256 (HMAC with SHA-256) signed JSON Web Tokens. A
// single Server plays both roles:
//
//   - Issuer: mints a token for a subject, valid for DefaultLifetime
//   - Validator: verifies the signature, algorithm, issuer and expiry
//
// Tokens are stateless. Nothing is persisted; validity is decided entirely by
// the signature and the exp claim at verification time. Rotating the secret
// invalidates every outstanding session.
//
// # Usage
//
//	issuer, validator := tokens.InitServer([]byte(secret), "tally")
//
//	token, err := issuer.IssueSessionToken("a@b.com")
//	if err != nil {
//	    return err
//	}
//	cookieValue := "Bearer " + token.Encoded()
//
//	decoded := &tokens.SessionToken{}
//	if err := decoded.Decode(token.Encoded(), validator); err != nil {
//	    return err
//	}
//	subject := decoded.Subject()
//
// # Error Handling
//
// Decoding fails with one of two errors:
//
//	switch {
//	case errors.Is(err, tokens.ErrTokenExpired()):
//	    // now >= exp
//	case errors.Is(err, tokens.ErrTokenInvalid()):
//	    // bad signature, wrong algorithm, wrong issuer or malformed structure
//	}
//
// Every minted token carries a random jti, so two tokens for the same subject
// are never byte-identical even when minted within the same second.
// Timestamps carry millisecond precision, and RotateSessionToken always
// returns a successor that expires strictly after the token it replaces.
package tokens
