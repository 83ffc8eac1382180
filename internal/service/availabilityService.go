package service

import (
	"context"
	"fmt"
	"sort"

	repository "github.com/brickandmorty/ticketbooker/internal/database/postgres"
	"github.com/brickandmorty/ticketbooker/internal/entity"

	"github.com/sirupsen/logrus"
)

type availabilityService struct {
	bookingRepo repository.BookingRepository
	ticketRepo  repository.TicketRepository
	cache       SnapshotCache
}

// NewAvailabilityService creates the availability engine. cache may be nil.
func NewAvailabilityService(
	bookingRepo repository.BookingRepository,
	ticketRepo repository.TicketRepository,
	cache SnapshotCache,
) AvailabilityService {
	return &availabilityService{
		bookingRepo: bookingRepo,
		ticketRepo:  ticketRepo,
		cache:       cache,
	}
}

func (s *availabilityService) IsBooked(ctx context.Context, ticketID int64, date entity.Date) (bool, error) {
	return s.bookingRepo.Exists(ctx, ticketID, date)
}

func (s *availabilityService) FindNextAvailableDate(ctx context.Context, ticketID int64, start entity.Date, maxDaysToCheck int) (entity.Date, error) {
	bookedDates, err := s.bookingRepo.GetBookedDatesFrom(ctx, ticketID, start)
	if err != nil {
		return entity.Date{}, fmt.Errorf("failed to load booked dates: %w", err)
	}

	booked := make(map[entity.Date]struct{}, len(bookedDates))
	for _, d := range bookedDates {
		booked[d] = struct{}{}
	}

	// Forward scan, inclusive of start itself: a caller wanting "next day
	// after an existing booking" passes start+1.
	for i := 0; i <= maxDaysToCheck; i++ {
		candidate := start.AddDays(i)
		if _, taken := booked[candidate]; !taken {
			return candidate, nil
		}
	}

	return entity.Date{}, &entity.NoAvailabilityError{
		TicketID:  ticketID,
		StartDate: start,
		MaxDays:   maxDaysToCheck,
	}
}

func (s *availabilityService) Recompute(ctx context.Context, asOf entity.Date, windowDays int) (*entity.AvailabilitySnapshot, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSnapshot(ctx, asOf, windowDays)
		if err != nil {
			logrus.Warnf("Snapshot cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	tickets, err := s.ticketRepo.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active tickets: %w", err)
	}

	// One fetch for the day itself, one for the whole lookahead window.
	bookingsOnDate, err := s.bookingRepo.GetByDate(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s: %w", asOf, err)
	}

	windowEnd := asOf.AddDays(windowDays)
	bookingsInWindow, err := s.bookingRepo.GetInRange(ctx, asOf, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings in window: %w", err)
	}

	bookedByTicket := GroupBookedDates(bookingsInWindow)

	statuses := DayStatuses(tickets, bookingsOnDate)
	nextFree := LookaheadNextFree(tickets, asOf, windowDays, bookedByTicket)

	bookedCount := 0
	for i := range statuses {
		if statuses[i].IsBooked {
			bookedCount++
		}
		statuses[i].NextFreeDate = nextFree[statuses[i].TicketID]
	}

	fullyBooked := FullyBookedDates(tickets, asOf, windowEnd, bookedByTicket)

	snapshot := &entity.AvailabilitySnapshot{
		AsOf:               asOf,
		WindowDays:         windowDays,
		Tickets:            statuses,
		FullyBookedDates:   fullyBooked,
		FullyBookedInMonth: filterToMonth(fullyBooked, asOf),
		FreeCount:          len(tickets) - bookedCount,
		BookedCount:        bookedCount,
	}

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, snapshot); err != nil {
			logrus.Warnf("Snapshot cache write failed: %v", err)
		}
	}

	return snapshot, nil
}

// GroupBookedDates groups the booked dates of a query result by ticket.
// The result feeds LookaheadNextFree and FullyBookedDates so both work on
// the same single range fetch.
func GroupBookedDates(bookings []*entity.Booking) map[int64]map[entity.Date]struct{} {
	byTicket := make(map[int64]map[entity.Date]struct{})
	for _, b := range bookings {
		dates, ok := byTicket[b.TicketID]
		if !ok {
			dates = make(map[entity.Date]struct{})
			byTicket[b.TicketID] = dates
		}
		dates[b.Date] = struct{}{}
	}
	return byTicket
}

// DayStatuses classifies every ticket as booked or free for one day, from
// a single fetch of that day's bookings. Cost is bounded by the number of
// bookings on the day, not tickets times bookings.
func DayStatuses(tickets []*entity.Ticket, bookingsOnDate []*entity.Booking) []entity.TicketDayStatus {
	byTicket := make(map[int64]*entity.Booking, len(bookingsOnDate))
	for _, b := range bookingsOnDate {
		byTicket[b.TicketID] = b
	}

	statuses := make([]entity.TicketDayStatus, 0, len(tickets))
	for _, t := range tickets {
		status := entity.TicketDayStatus{
			TicketID:   t.ID,
			TicketCode: t.Code,
		}
		if b, ok := byTicket[t.ID]; ok {
			name := b.BookerName
			id := b.ID
			status.IsBooked = true
			status.BookerName = &name
			status.BookingID = &id
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// LookaheadNextFree finds, per ticket, the earliest unbooked date in
// [windowStart, windowStart+windowDays]. A ticket whose window is fully
// taken maps to nil; exhaustion is not an error here.
func LookaheadNextFree(tickets []*entity.Ticket, windowStart entity.Date, windowDays int, bookedByTicket map[int64]map[entity.Date]struct{}) map[int64]*entity.Date {
	result := make(map[int64]*entity.Date, len(tickets))
	for _, t := range tickets {
		booked := bookedByTicket[t.ID]

		result[t.ID] = nil
		for i := 0; i <= windowDays; i++ {
			candidate := windowStart.AddDays(i)
			if _, taken := booked[candidate]; !taken {
				result[t.ID] = &candidate
				break
			}
		}
	}
	return result
}

// FullyBookedDates returns the dates in [from, to] on which every ticket
// has a booking, in ascending order. An empty ticket set yields no fully
// booked dates: reporting every day as booked on a fresh install would be
// vacuously true but useless.
func FullyBookedDates(tickets []*entity.Ticket, from, to entity.Date, bookedByTicket map[int64]map[entity.Date]struct{}) []entity.Date {
	var fullyBooked []entity.Date
	if len(tickets) == 0 {
		return fullyBooked
	}

	for date := from; !date.After(to.Time); date = date.AddDays(1) {
		allBooked := true
		for _, t := range tickets {
			if _, taken := bookedByTicket[t.ID][date]; !taken {
				allBooked = false
				break
			}
		}
		if allBooked {
			fullyBooked = append(fullyBooked, date)
		}
	}
	return fullyBooked
}

// filterToMonth keeps the dates falling in the same month as asOf, for the
// month summary shown next to the calendar.
func filterToMonth(dates []entity.Date, asOf entity.Date) []entity.Date {
	var inMonth []entity.Date
	for _, d := range dates {
		if d.Year() == asOf.Year() && d.Month() == asOf.Month() {
			inMonth = append(inMonth, d)
		}
	}
	sort.Slice(inMonth, func(i, j int) bool { return inMonth[i].Before(inMonth[j].Time) })
	return inMonth
}
