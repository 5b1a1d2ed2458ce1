package api

import (
	"net/http"

	"git.sr.ht/~jakintosh/tally/internal/csrf"
	"git.sr.ht/~jakintosh/tally/internal/service"
	"git.sr.ht/~jakintosh/tally/pkg/tokens"
)

// SessionCookieName carries "Bearer <token>".
const SessionCookieName = "access_token"

func setSessionCookie(w http.ResponseWriter, token *tokens.SessionToken) {
	http.SetCookie(w, sessionCookie(service.CookieValue(token)))
}

// clearSessionCookie overwrites the session with an empty value.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie(""))
}

func sessionCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func readSessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func readCSRFHeader(r *http.Request) string {
	return r.Header.Get(csrf.HeaderName)
}

// rotate verifies the caller's session and re-issues the cookie. On failure
// the error response is already written.
func (a *API) rotate(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, subject, err := a.service.VerifyAndRotate(readSessionCookie(r))
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	setSessionCookie(w, token)
	return subject, true
}

// rotateWithCSRF is rotate behind the CSRF header check.
func (a *API) rotateWithCSRF(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, subject, err := a.service.VerifyCSRFAndRotate(readSessionCookie(r), readCSRFHeader(r))
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	setSessionCookie(w, token)
	return subject, true
}

// gate applies the endpoint policy for a read that may be public.
func (a *API) gate(w http.ResponseWriter, r *http.Request, endpoint string) bool {
	if !a.policy.RequiresSession(endpoint) {
		return true
	}
	_, ok := a.rotate(w, r)
	return ok
}
