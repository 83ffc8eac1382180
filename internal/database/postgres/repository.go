package repository

import (
	"context"

	"github.com/brickandmorty/ticketbooker/internal/entity"
)

type BookingRepository interface {
	// Basic CRUD operations. Create fails with entity.ErrBookingConflict
	// when a booking for the same (ticket, date) pair already exists; the
	// unique index enforces this even against concurrent writers.
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id int64) (*entity.Booking, error)
	// Delete is a no-op when the id is absent.
	Delete(ctx context.Context, id int64) error

	// Query operations
	GetByDate(ctx context.Context, date entity.Date) ([]*entity.Booking, error)
	GetInRange(ctx context.Context, from, to entity.Date) ([]*entity.Booking, error)
	Exists(ctx context.Context, ticketID int64, date entity.Date) (bool, error)
	GetBookedDatesFrom(ctx context.Context, ticketID int64, from entity.Date) ([]entity.Date, error)

	// Renderer feed: rows with resolved ticket code, ordered by date and
	// then by ticket code.
	GetExportRows(ctx context.Context, from, to entity.Date) ([]*entity.BookingExportRow, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, id int64) (*entity.Ticket, error)
	GetAllActive(ctx context.Context) ([]*entity.Ticket, error)
	Count(ctx context.Context) (int, error)
	Deactivate(ctx context.Context, id int64) error
}
