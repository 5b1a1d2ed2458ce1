package api

import (
	"net/http"
)

type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	Email string `json:"email"`
}

func (a *API) CSRFToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := a.service.IssueCSRF()
		if err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(CSRFResponse{CSRFToken: token}, w)
	}
}

func (a *API) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.service.ValidateCSRF(readCSRFHeader(r)); err != nil {
			writeError(w, r, err)
			return
		}

		var req CredentialsRequest
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		user, err := a.service.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(user, w)
	}
}

func (a *API) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.service.ValidateCSRF(readCSRFHeader(r)); err != nil {
			writeError(w, r, err)
			return
		}

		var req CredentialsRequest
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		token, err := a.service.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		setSessionCookie(w, token)
		returnJson(MessageResponse{Message: "Successfully logged-in"}, w)
	}
}

func (a *API) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.service.ValidateCSRF(readCSRFHeader(r)); err != nil {
			writeError(w, r, err)
			return
		}

		a.service.Logout(readSessionCookie(r))

		clearSessionCookie(w)
		returnJson(MessageResponse{Message: "Successfully logged-out"}, w)
	}
}

// User verifies and refreshes the session, returning who it belongs to.
func (a *API) User() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := a.rotate(w, r)
		if !ok {
			return
		}
		returnJson(UserResponse{Email: subject}, w)
	}
}
