package service

import (
	"context"

	"github.com/brickandmorty/ticketbooker/internal/entity"
)

// AvailabilityService is the booking availability engine: the conflict
// guard, the next-free-date search and the aggregate calendar views. It
// holds no state between calls; every operation re-reads the store so a
// conflict check is always against current data.
type AvailabilityService interface {
	IsBooked(ctx context.Context, ticketID int64, date entity.Date) (bool, error)

	// FindNextAvailableDate returns the first unbooked date for the ticket,
	// scanning forward from start (inclusive) for at most maxDaysToCheck
	// additional days. Callers that want "the day after an existing
	// booking" pass start+1. Exhausting the budget fails with
	// entity.ErrNoAvailability.
	FindNextAvailableDate(ctx context.Context, ticketID int64, start entity.Date, maxDaysToCheck int) (entity.Date, error)

	// Recompute builds the availability snapshot for one day and its
	// lookahead window from two store fetches: the day's bookings and the
	// window's bookings grouped by ticket.
	Recompute(ctx context.Context, asOf entity.Date, windowDays int) (*entity.AvailabilitySnapshot, error)
}

// BookingService orchestrates the booking lifecycle: create guarded by the
// conflict check, idempotent delete, and copy producing a prefilled draft
// on the next free date. Bookings have no other lifecycle transitions.
type BookingService interface {
	CreateBooking(ctx context.Context, req *CreateBookingRequest) (*entity.Booking, error)
	GetBooking(ctx context.Context, id int64) (*entity.Booking, error)
	GetBookingsForDate(ctx context.Context, date entity.Date) ([]*entity.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	CopyBooking(ctx context.Context, sourceID int64, earliestDate entity.Date) (*entity.BookingDraft, error)
	GetExportRows(ctx context.Context, from, to entity.Date) ([]*entity.BookingExportRow, error)
}

// TicketService manages the fixed pool of bookable tickets.
type TicketService interface {
	EnsureDefaultTickets(ctx context.Context, count int) error
	ListActiveTickets(ctx context.Context) ([]*entity.Ticket, error)
	CreateTicket(ctx context.Context, code string) (*entity.Ticket, error)
	DeactivateTicket(ctx context.Context, id int64) error
}

// SnapshotCache stores computed availability snapshots. Implementations
// are optional; services treat a nil cache as "compute every time".
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, asOf entity.Date, windowDays int) (*entity.AvailabilitySnapshot, error)
	SetSnapshot(ctx context.Context, snapshot *entity.AvailabilitySnapshot) error
	Invalidate(ctx context.Context) error
}

// CreateBookingRequest carries a booking intent from transport.
type CreateBookingRequest struct {
	TicketID   int64       `json:"ticket_id" binding:"required"`
	Date       entity.Date `json:"date" binding:"required"`
	BookerName string      `json:"booker_name"`
	Price      float64     `json:"price"`
	Completed  bool        `json:"completed"`
	Note       *string     `json:"note"`
}
