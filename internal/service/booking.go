package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingInput is the caller-supplied part of a Booking.
type BookingInput struct {
	CustomerID      string
	AppointmentDate time.Time
	Details         string
}

func (in BookingInput) validate() error {
	if strings.TrimSpace(in.CustomerID) == "" {
		return fmt.Errorf("%w: customer_id is required", ErrInvalidInput)
	}
	if in.AppointmentDate.IsZero() {
		return fmt.Errorf("%w: appointment_date is required", ErrInvalidInput)
	}
	return nil
}

func (s *Service) CreateBooking(ctx context.Context, in BookingInput) (*Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	booking := Booking{
		ID:              uuid.NewString(),
		CustomerID:      in.CustomerID,
		AppointmentDate: in.AppointmentDate.UTC(),
		Details:         in.Details,
	}
	if err := s.bookings.InsertBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: failed to insert booking: %v", ErrInternal, err)
	}
	return &booking, nil
}

func (s *Service) ListBookings(ctx context.Context) ([]Booking, error) {
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}
	return bookings, nil
}

func (s *Service) GetBooking(ctx context.Context, id string) (*Booking, error) {
	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, storeErr(err, "booking", id)
	}
	return booking, nil
}

func (s *Service) UpdateBooking(ctx context.Context, id string, in BookingInput) (*Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	booking := Booking{
		ID:              id,
		CustomerID:      in.CustomerID,
		AppointmentDate: in.AppointmentDate.UTC(),
		Details:         in.Details,
	}
	if err := s.bookings.UpdateBooking(ctx, booking); err != nil {
		return nil, storeErr(err, "booking", id)
	}
	return &booking, nil
}

func (s *Service) DeleteBooking(ctx context.Context, id string) error {
	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return storeErr(err, "booking", id)
	}
	return nil
}
