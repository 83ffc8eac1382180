package entity

// Ticket is a physical ticket available for daily booking. Tickets are
// provisioned once and never hard-deleted; deactivation removes them from
// booking and availability views.
type Ticket struct {
	ID       int64  `json:"id" db:"id"`
	Code     string `json:"code" db:"code"`
	IsActive bool   `json:"is_active" db:"is_active"`
}

const (
	MaxTicketCodeLength = 20
	MaxBookerNameLength = 100
)
