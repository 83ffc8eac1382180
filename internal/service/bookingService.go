package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	repository "github.com/brickandmorty/ticketbooker/internal/database/postgres"
	"github.com/brickandmorty/ticketbooker/internal/entity"

	"github.com/sirupsen/logrus"
)

// copySearchBudgetDays caps the forward scan when suggesting a date for a
// copied booking.
const copySearchBudgetDays = 365

type bookingService struct {
	bookingRepo  repository.BookingRepository
	ticketRepo   repository.TicketRepository
	availability AvailabilityService
	cache        SnapshotCache
}

// NewBookingService creates the booking lifecycle controller. cache may be
// nil; when present, every successful write invalidates it.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	ticketRepo repository.TicketRepository,
	availability AvailabilityService,
	cache SnapshotCache,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		ticketRepo:   ticketRepo,
		availability: availability,
		cache:        cache,
	}
}

// CreateBooking validates the intent, pre-checks for a conflict and
// inserts. The pre-check gives a fast rejection; the store's unique index
// is what actually guarantees one booking per ticket per date, including
// against a concurrent writer that slips between check and insert.
func (s *bookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*entity.Booking, error) {
	bookerName := strings.TrimSpace(req.BookerName)
	if bookerName == "" {
		return nil, fmt.Errorf("%w: booker name must not be empty", entity.ErrInvalidInput)
	}
	if len(bookerName) > entity.MaxBookerNameLength {
		return nil, fmt.Errorf("%w: booker name exceeds %d characters", entity.ErrInvalidInput, entity.MaxBookerNameLength)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", entity.ErrInvalidInput)
	}

	ticket, err := s.ticketRepo.GetByID(ctx, req.TicketID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsActive {
		return nil, fmt.Errorf("%w: ticket %s is not active", entity.ErrInvalidInput, ticket.Code)
	}

	booked, err := s.availability.IsBooked(ctx, req.TicketID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if booked {
		return nil, entity.ErrBookingConflict
	}

	booking := &entity.Booking{
		TicketID:   req.TicketID,
		Date:       req.Date,
		BookerName: bookerName,
		Price:      req.Price,
		Completed:  req.Completed,
		Note:       req.Note,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	logrus.Infof("Booking created: ID=%d, Ticket=%d, Date=%s, Booker=%s",
		booking.ID, booking.TicketID, booking.Date, booking.BookerName)

	s.invalidateSnapshots(ctx)

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*entity.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) GetBookingsForDate(ctx context.Context, date entity.Date) ([]*entity.Booking, error) {
	return s.bookingRepo.GetByDate(ctx, date)
}

// DeleteBooking removes a booking. Deleting an unknown id is a no-op.
func (s *bookingService) DeleteBooking(ctx context.Context, id int64) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}

	logrus.Infof("Booking deleted: ID=%d", id)

	s.invalidateSnapshots(ctx)
	return nil
}

// CopyBooking loads the source booking and suggests a prefilled draft on
// the next free date for the same ticket, searching forward from
// earliestDate. The draft is not persisted; the caller confirms it through
// CreateBooking.
func (s *bookingService) CopyBooking(ctx context.Context, sourceID int64, earliestDate entity.Date) (*entity.BookingDraft, error) {
	source, err := s.bookingRepo.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, entity.ErrBookingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load source booking: %w", err)
	}

	suggestedDate, err := s.availability.FindNextAvailableDate(ctx, source.TicketID, earliestDate, copySearchBudgetDays)
	if err != nil {
		return nil, err
	}

	return &entity.BookingDraft{
		TicketID:   source.TicketID,
		Date:       suggestedDate,
		BookerName: source.BookerName,
		Price:      source.Price,
		Completed:  source.Completed,
		Note:       source.Note,
	}, nil
}

func (s *bookingService) GetExportRows(ctx context.Context, from, to entity.Date) ([]*entity.BookingExportRow, error) {
	return s.bookingRepo.GetExportRows(ctx, from, to)
}

func (s *bookingService) invalidateSnapshots(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logrus.Warnf("Failed to invalidate snapshot cache: %v", err)
	}
}
