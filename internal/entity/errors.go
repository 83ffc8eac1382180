package entity

import (
	"errors"
	"fmt"
)

var (
	// Ticket errors
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketAlreadyExists = errors.New("ticket code already exists")

	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingConflict = errors.New("ticket is already booked on this date")
	ErrNoAvailability  = errors.New("no available date found")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)

// NoAvailabilityError reports an exhausted next-free-date search together
// with the window that was scanned. It matches ErrNoAvailability via
// errors.Is.
type NoAvailabilityError struct {
	TicketID  int64
	StartDate Date
	MaxDays   int
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("no free day for ticket %d within %d days from %s",
		e.TicketID, e.MaxDays, e.StartDate)
}

func (e *NoAvailabilityError) Unwrap() error {
	return ErrNoAvailability
}
