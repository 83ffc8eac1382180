package entity

import (
	"time"
)

// Booking assigns one ticket to one booker on one calendar date.
// The pair (TicketID, Date) is unique across all bookings; the database
// enforces this with a unique index. Bookings are never updated in place:
// an edit is modeled as delete+create, a reschedule as a copy draft.
type Booking struct {
	ID         int64     `json:"id" db:"id"`
	TicketID   int64     `json:"ticket_id" db:"ticket_id"`
	Date       Date      `json:"date" db:"booking_date"`
	BookerName string    `json:"booker_name" db:"booker_name"`
	Price      float64   `json:"price" db:"price"`
	Completed  bool      `json:"completed" db:"completed"`
	Note       *string   `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// BookingDraft is a prefilled, not yet persisted booking suggestion,
// produced by the copy operation.
type BookingDraft struct {
	TicketID   int64   `json:"ticket_id"`
	Date       Date    `json:"date"`
	BookerName string  `json:"booker_name"`
	Price      float64 `json:"price"`
	Completed  bool    `json:"completed"`
	Note       *string `json:"note,omitempty"`
}

// BookingExportRow is one line of the renderer feed: a booking with its
// ticket code resolved, ordered by date and then by code.
type BookingExportRow struct {
	BookingID  int64   `json:"booking_id"`
	Date       Date    `json:"date"`
	TicketCode string  `json:"ticket_code"`
	BookerName string  `json:"booker_name"`
	Price      float64 `json:"price"`
	Completed  bool    `json:"completed"`
	Note       *string `json:"note,omitempty"`
}
