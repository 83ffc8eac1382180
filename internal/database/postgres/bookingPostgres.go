package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brickandmorty/ticketbooker/internal/entity"

	"github.com/lib/pq"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const uniqueViolation = "23505"

// Create inserts a new booking. The idx_ticket_date unique index rejects a
// second booking for the same (ticket, date) pair, which covers the race
// between the service-level pre-check and the insert.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (ticket_id, booking_date, booker_name, price, completed, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		booking.TicketID,
		booking.Date,
		booking.BookerName,
		booking.Price,
		booking.Completed,
		booking.Note,
		now,
	).Scan(&booking.ID)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return entity.ErrBookingConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.CreatedAt = now
	return nil
}

// GetByID retrieves a booking by its ID
func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `
		SELECT id, ticket_id, booking_date, booker_name, price, completed, note, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking entity.Booking
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.TicketID,
		&booking.Date,
		&booking.BookerName,
		&booking.Price,
		&booking.Completed,
		&booking.Note,
		&booking.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// Delete removes a booking. Deleting an id that is already gone is not an
// error.
func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM bookings WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}

// GetByDate retrieves all bookings on one calendar date
func (r *bookingRepository) GetByDate(ctx context.Context, date entity.Date) ([]*entity.Booking, error) {
	query := `
		SELECT id, ticket_id, booking_date, booker_name, price, completed, note, created_at
		FROM bookings
		WHERE booking_date = $1
	`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by date: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetInRange retrieves all bookings with a date in [from, to], inclusive
// on both ends.
func (r *bookingRepository) GetInRange(ctx context.Context, from, to entity.Date) ([]*entity.Booking, error) {
	query := `
		SELECT id, ticket_id, booking_date, booker_name, price, completed, note, created_at
		FROM bookings
		WHERE booking_date >= $1 AND booking_date <= $2
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings in range: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *bookingRepository) Exists(ctx context.Context, ticketID int64, date entity.Date) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE ticket_id = $1 AND booking_date = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ticketID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check booking existence: %w", err)
	}
	return exists, nil
}

// GetBookedDatesFrom retrieves every booked date for a ticket on or after
// the given date, for the next-free-date scan.
func (r *bookingRepository) GetBookedDatesFrom(ctx context.Context, ticketID int64, from entity.Date) ([]entity.Date, error) {
	query := `SELECT booking_date FROM bookings WHERE ticket_id = $1 AND booking_date >= $2`

	rows, err := r.db.QueryContext(ctx, query, ticketID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked dates: %w", err)
	}
	defer rows.Close()

	var dates []entity.Date
	for rows.Next() {
		var d entity.Date
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan booked date: %w", err)
		}
		dates = append(dates, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booked dates: %w", err)
	}

	return dates, nil
}

func (r *bookingRepository) GetExportRows(ctx context.Context, from, to entity.Date) ([]*entity.BookingExportRow, error) {
	query := `
		SELECT b.id, b.booking_date, t.code, b.booker_name, b.price, b.completed, b.note
		FROM bookings b
		JOIN tickets t ON b.ticket_id = t.id
		WHERE b.booking_date >= $1 AND b.booking_date <= $2
		ORDER BY b.booking_date ASC, t.code ASC
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query export rows: %w", err)
	}
	defer rows.Close()

	var result []*entity.BookingExportRow
	for rows.Next() {
		var row entity.BookingExportRow
		err := rows.Scan(
			&row.BookingID,
			&row.Date,
			&row.TicketCode,
			&row.BookerName,
			&row.Price,
			&row.Completed,
			&row.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export rows: %w", err)
	}

	return result, nil
}

func scanBookings(rows *sql.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.TicketID,
			&booking.Date,
			&booking.BookerName,
			&booking.Price,
			&booking.Completed,
			&booking.Note,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}
