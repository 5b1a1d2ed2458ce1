package api

import (
	"net/http"

	"git.sr.ht/~jakintosh/tally/internal/policy"
	"github.com/gorilla/mux"
)

type TodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (a *API) CreateTodo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.rotateWithCSRF(w, r); !ok {
			return
		}

		var req TodoRequest
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		todo, err := a.service.CreateTodo(r.Context(), req.Title, req.Description)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJson(w, http.StatusCreated, todo)
	}
}

func (a *API) ListTodos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ok := a.gate(w, r, policy.TodoList); !ok {
			return
		}

		todos, err := a.service.ListTodos(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(todos, w)
	}
}

func (a *API) GetTodo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.rotate(w, r); !ok {
			return
		}

		todo, err := a.service.GetTodo(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(todo, w)
	}
}

func (a *API) UpdateTodo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.rotateWithCSRF(w, r); !ok {
			return
		}

		var req TodoRequest
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		todo, err := a.service.UpdateTodo(r.Context(), mux.Vars(r)["id"], req.Title, req.Description)
		if err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(todo, w)
	}
}

func (a *API) DeleteTodo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.rotateWithCSRF(w, r); !ok {
			return
		}

		if err := a.service.DeleteTodo(r.Context(), mux.Vars(r)["id"]); err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(MessageResponse{Message: "Successfully deleted"}, w)
	}
}
