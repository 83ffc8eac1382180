package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brickandmorty/ticketbooker/internal/entity"

	"github.com/lib/pq"
)

type ticketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `INSERT INTO tickets (code, is_active) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, ticket.Code, ticket.IsActive).Scan(&ticket.ID)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return entity.ErrTicketAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*entity.Ticket, error) {
	query := `SELECT id, code, is_active FROM tickets WHERE id = $1`

	var ticket entity.Ticket
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ticket.ID, &ticket.Code, &ticket.IsActive)
	if err == sql.ErrNoRows {
		return nil, entity.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return &ticket, nil
}

// GetAllActive retrieves active tickets ordered by code
func (r *ticketRepository) GetAllActive(ctx context.Context) ([]*entity.Ticket, error) {
	query := `SELECT id, code, is_active FROM tickets WHERE is_active = TRUE ORDER BY code ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var ticket entity.Ticket
		if err := rows.Scan(&ticket.ID, &ticket.Code, &ticket.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// Count counts all tickets, active or not, for the first-run seeding check.
func (r *ticketRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM tickets`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// Deactivate soft-removes a ticket; its historical bookings stay intact.
func (r *ticketRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE tickets SET is_active = FALSE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate ticket: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrTicketNotFound
	}

	return nil
}
