package entity

// TicketDayStatus classifies one ticket for one day: either booked (with
// the booker and booking id resolved) or free, plus the next free date
// within the lookahead window. NextFreeDate is nil when every day of the
// window is taken.
type TicketDayStatus struct {
	TicketID     int64   `json:"ticket_id"`
	TicketCode   string  `json:"ticket_code"`
	IsBooked     bool    `json:"is_booked"`
	BookerName   *string `json:"booker_name,omitempty"`
	BookingID    *int64  `json:"booking_id,omitempty"`
	NextFreeDate *Date   `json:"next_free_date,omitempty"`
}

// AvailabilitySnapshot is the complete availability view for one day and
// its lookahead window, computed in a single pass from current store state.
type AvailabilitySnapshot struct {
	AsOf               Date              `json:"as_of"`
	WindowDays         int               `json:"window_days"`
	Tickets            []TicketDayStatus `json:"tickets"`
	FullyBookedDates   []Date            `json:"fully_booked_dates"`
	FullyBookedInMonth []Date            `json:"fully_booked_in_month"`
	FreeCount          int               `json:"free_count"`
	BookedCount        int               `json:"booked_count"`
}

// FullyBooked reports whether every active ticket has a booking on the
// given date. Only dates inside the snapshot window can be reported as
// fully booked.
func (s *AvailabilitySnapshot) FullyBooked(date Date) bool {
	for _, d := range s.FullyBookedDates {
		if d == date {
			return true
		}
	}
	return false
}
