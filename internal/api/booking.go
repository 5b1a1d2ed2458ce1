package api

import (
	"net/http"
	"time"

	"git.sr.ht/~jakintosh/tally/internal/policy"
	"git.sr.ht/~jakintosh/tally/internal/service"
	"github.com/gorilla/mux"
)

type BookingRequest struct {
	CustomerID      string    `json:"customer_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Details         string    `json:"details"`
}

func (req BookingRequest) input() service.BookingInput {
	return service.BookingInput{
		CustomerID:      req.CustomerID,
		AppointmentDate: req.AppointmentDate,
		Details:         req.Details,
	}
}

func (a *API) CreateBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.rotateWithCSRF(w, r); !ok {
			return
		}

		var req BookingRequest
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		booking, err := a.service.CreateBooking(r.Context(), req.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJson(w, http.StatusCreated, booking)
	}
}

func (a *API) ListBookings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ok := a.gate(w, r, policy.BookingList); !ok {
			return
		}

		bookings, err := a.service.ListBookings(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(bookings, w)
	}
}

func (a *API) GetBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.rotate(w, r); !ok {
			return
		}

		booking, err := a.service.GetBooking(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(booking, w)
	}
}

func (a *API) UpdateBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.rotateWithCSRF(w, r); !ok {
			return
		}

		var req BookingRequest
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		booking, err := a.service.UpdateBooking(r.Context(), mux.Vars(r)["id"], req.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(booking, w)
	}
}

func (a *API) DeleteBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.rotateWithCSRF(w, r); !ok {
			return
		}

		if err := a.service.DeleteBooking(r.Context(), mux.Vars(r)["id"]); err != nil {
			writeError(w, r, err)
			return
		}
		returnJson(MessageResponse{Message: "Successfully deleted"}, w)
	}
}
