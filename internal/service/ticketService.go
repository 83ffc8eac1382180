package service

import (
	"context"
	"fmt"
	"strings"

	repository "github.com/brickandmorty/ticketbooker/internal/database/postgres"
	"github.com/brickandmorty/ticketbooker/internal/entity"

	"github.com/sirupsen/logrus"
)

type ticketService struct {
	ticketRepo repository.TicketRepository
}

func NewTicketService(ticketRepo repository.TicketRepository) TicketService {
	return &ticketService{ticketRepo: ticketRepo}
}

// EnsureDefaultTickets seeds KT-001..KT-NNN on first run. A non-empty
// registry is left untouched.
func (s *ticketService) EnsureDefaultTickets(ctx context.Context, count int) error {
	existing, err := s.ticketRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tickets: %w", err)
	}
	if existing > 0 {
		return nil
	}

	for i := 1; i <= count; i++ {
		ticket := &entity.Ticket{
			Code:     fmt.Sprintf("KT-%03d", i),
			IsActive: true,
		}
		if err := s.ticketRepo.Create(ctx, ticket); err != nil {
			return fmt.Errorf("failed to seed ticket %s: %w", ticket.Code, err)
		}
	}

	logrus.Infof("Seeded %d default tickets", count)
	return nil
}

func (s *ticketService) ListActiveTickets(ctx context.Context) ([]*entity.Ticket, error) {
	return s.ticketRepo.GetAllActive(ctx)
}

func (s *ticketService) CreateTicket(ctx context.Context, code string) (*entity.Ticket, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: ticket code must not be empty", entity.ErrInvalidInput)
	}
	if len(code) > entity.MaxTicketCodeLength {
		return nil, fmt.Errorf("%w: ticket code exceeds %d characters", entity.ErrInvalidInput, entity.MaxTicketCodeLength)
	}

	ticket := &entity.Ticket{
		Code:     code,
		IsActive: true,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	logrus.Infof("Ticket created: ID=%d, Code=%s", ticket.ID, ticket.Code)
	return ticket, nil
}

func (s *ticketService) DeactivateTicket(ctx context.Context, id int64) error {
	if err := s.ticketRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	logrus.Infof("Ticket deactivated: ID=%d", id)
	return nil
}
