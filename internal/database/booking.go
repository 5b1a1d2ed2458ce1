package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"git.sr.ht/~jakintosh/tally/internal/service"
)

func (s *SQLiteStore) InsertBooking(
	ctx context.Context,
	booking service.Booking,
) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO booking (id, customer_id, appointment, details)
		VALUES (?1, ?2, ?3, ?4);`,
		booking.ID,
		booking.CustomerID,
		booking.AppointmentDate.Unix(),
		booking.Details,
	)
	if err != nil {
		return fmt.Errorf("couldn't insert into booking: %v", err)
	}
	return nil
}

func (s *SQLiteStore) ListBookings(
	ctx context.Context,
) (
	[]service.Booking,
	error,
) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, appointment, details
		FROM booking
		ORDER BY created, rowid;`,
	)
	if err != nil {
		return nil, fmt.Errorf("couldn't query booking: %v", err)
	}
	defer rows.Close()

	bookings := []service.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("couldn't iterate booking: %v", err)
	}
	return bookings, nil
}

func (s *SQLiteStore) GetBooking(
	ctx context.Context,
	id string,
) (
	*service.Booking,
	error,
) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, customer_id, appointment, details
		FROM booking b
		WHERE b.id=?1;`,
		id,
	)

	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *SQLiteStore) UpdateBooking(
	ctx context.Context,
	booking service.Booking,
) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE booking
		SET customer_id=?2, appointment=?3, details=?4
		WHERE id=?1;`,
		booking.ID,
		booking.CustomerID,
		booking.AppointmentDate.Unix(),
		booking.Details,
	)
	if err != nil {
		return fmt.Errorf("couldn't update booking: %v", err)
	}
	if resultsEmpty(result) {
		return service.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteBooking(
	ctx context.Context,
	id string,
) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM booking
		WHERE id=?1;`,
		id,
	)
	if err != nil {
		return fmt.Errorf("couldn't delete from booking: %v", err)
	}
	if resultsEmpty(result) {
		return service.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*service.Booking, error) {
	var (
		booking     service.Booking
		appointment int64
	)
	err := row.Scan(&booking.ID, &booking.CustomerID, &appointment, &booking.Details)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("couldn't scan booking: %v", err)
	}
	booking.AppointmentDate = time.Unix(appointment, 0).UTC()
	return &booking, nil
}
