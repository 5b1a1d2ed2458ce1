package api

import (
	"net/http"

	"git.sr.ht/~jakintosh/tally/internal/csrf"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests that no route accepted.
const unmatchedRoute = "unmatched"

func (a *API) Router() http.Handler {
	r := mux.NewRouter()
	a.handleUnmatched(r)

	a.handle(r, "", "/healthz", "GET", a.Health())
	if a.gatherer != nil {
		a.handle(r, "", "/metrics", "GET", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	}

	s := r.PathPrefix("/api").Subrouter()
	a.handleUnmatched(s)

	a.handle(s, "/api", "/csrftoken", "GET", a.CSRFToken())
	a.handle(s, "/api", "/register", "POST", a.Register())
	a.handle(s, "/api", "/login", "POST", a.Login())
	a.handle(s, "/api", "/logout", "POST", a.Logout())
	a.handle(s, "/api", "/user", "GET", a.User())
	a.handle(s, "/api", "/session", "GET", a.User())

	a.handle(s, "/api", "/todo", "POST", a.CreateTodo())
	a.handle(s, "/api", "/todo", "GET", a.ListTodos())
	a.handle(s, "/api", "/todo/{id}", "GET", a.GetTodo())
	a.handle(s, "/api", "/todo/{id}", "PUT", a.UpdateTodo())
	a.handle(s, "/api", "/todo/{id}", "DELETE", a.DeleteTodo())

	a.handle(s, "/api", "/booking", "POST", a.CreateBooking())
	a.handle(s, "/api", "/booking", "GET", a.ListBookings())
	a.handle(s, "/api", "/booking/{id}", "GET", a.GetBooking())
	a.handle(s, "/api", "/booking/{id}", "PUT", a.UpdateBooking())
	a.handle(s, "/api", "/booking/{id}", "DELETE", a.DeleteBooking())

	return a.cors(r)
}

// handle registers h for method on path, instrumented under its full route
// template.
func (a *API) handle(r *mux.Router, prefix, path, method string, h http.Handler) {
	r.Handle(path, a.metrics.InstrumentHandler(prefix+path, h)).Methods(method)
}

// handleUnmatched makes mux's 404 and 405 answers visible to the request
// metrics, which otherwise only see matched routes.
func (a *API) handleUnmatched(r *mux.Router) {
	r.NotFoundHandler = a.metrics.InstrumentHandler(unmatchedRoute,
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJson(w, http.StatusNotFound, ErrorResponse{Detail: "not found"})
		}))
	r.MethodNotAllowedHandler = a.metrics.InstrumentHandler(unmatchedRoute,
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJson(w, http.StatusMethodNotAllowed, ErrorResponse{Detail: "method not allowed"})
		}))
}

func (a *API) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.ping != nil {
			if err := a.ping(); err != nil {
				writeJson(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		returnJson(map[string]string{"status": "ok"}, w)
	}
}

// cors answers preflight requests and marks responses readable by the one
// configured origin. Credentials must be allowed for the cookie to travel.
func (a *API) cors(next http.Handler) http.Handler {
	if a.allowedOrigin == "" {
		return next
	}
	return handlers.CORS(
		handlers.AllowedOrigins([]string{a.allowedOrigin}),
		handlers.AllowCredentials(),
		handlers.AllowedMethods([]string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", csrf.HeaderName}),
		handlers.OptionStatusCode(http.StatusNoContent),
	)(next)
}
