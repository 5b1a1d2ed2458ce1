package service

import (
	"context"
	"time"
)

// Credential is a stored login. The hash never leaves the service package
// boundary in API responses.
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
}

// RegisteredUser is the public view of a Credential.
type RegisteredUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Todo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Booking struct {
	ID              string    `json:"booking_id"`
	CustomerID      string    `json:"customer_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Details         string    `json:"details"`
}

// CredentialStore persists credentials. InsertCredential must enforce email
// uniqueness atomically and report a conflict as ErrEmailTaken. GetCredential
// reports an unknown email as ErrNotFound.
type CredentialStore interface {
	InsertCredential(ctx context.Context, cred Credential) error
	GetCredential(ctx context.Context, email string) (*Credential, error)
}

// TodoStore persists todo items. Missing ids are reported as ErrNotFound.
type TodoStore interface {
	InsertTodo(ctx context.Context, todo Todo) error
	ListTodos(ctx context.Context) ([]Todo, error)
	GetTodo(ctx context.Context, id string) (*Todo, error)
	UpdateTodo(ctx context.Context, todo Todo) error
	DeleteTodo(ctx context.Context, id string) error
}

// BookingStore persists bookings. Missing ids are reported as ErrNotFound.
type BookingStore interface {
	InsertBooking(ctx context.Context, booking Booking) error
	ListBookings(ctx context.Context) ([]Booking, error)
	GetBooking(ctx context.Context, id string) (*Booking, error)
	UpdateBooking(ctx context.Context, booking Booking) error
	DeleteBooking(ctx context.Context, id string) error
}

// Store is everything Service persists.
type Store interface {
	CredentialStore
	TodoStore
	BookingStore
}
