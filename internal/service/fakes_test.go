package service

import (
	"context"
	"sort"
	"sync"

	"github.com/brickandmorty/ticketbooker/internal/entity"
)

// In-memory repository fakes. fakeBookingRepo enforces the same
// (ticket, date) uniqueness the database index does, so the conflict path
// behaves like production.

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*entity.Booking
	codes    map[int64]string // ticket id -> code, for export rows
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[int64]*entity.Booking),
		codes:    make(map[int64]string),
	}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.TicketID == booking.TicketID && b.Date == booking.Date {
			return entity.ErrBookingConflict
		}
	}

	f.nextID++
	booking.ID = f.nextID
	stored := *booking
	f.bookings[booking.ID] = &stored
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) GetByDate(_ context.Context, date entity.Date) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*entity.Booking
	for _, b := range f.bookings {
		if b.Date == date {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) GetInRange(_ context.Context, from, to entity.Date) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*entity.Booking
	for _, b := range f.bookings {
		if !b.Date.Before(from.Time) && !b.Date.After(to.Time) {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) Exists(_ context.Context, ticketID int64, date entity.Date) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.TicketID == ticketID && b.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) GetBookedDatesFrom(_ context.Context, ticketID int64, from entity.Date) ([]entity.Date, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var dates []entity.Date
	for _, b := range f.bookings {
		if b.TicketID == ticketID && !b.Date.Before(from.Time) {
			dates = append(dates, b.Date)
		}
	}
	return dates, nil
}

func (f *fakeBookingRepo) GetExportRows(_ context.Context, from, to entity.Date) ([]*entity.BookingExportRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []*entity.BookingExportRow
	for _, b := range f.bookings {
		if b.Date.Before(from.Time) || b.Date.After(to.Time) {
			continue
		}
		rows = append(rows, &entity.BookingExportRow{
			BookingID:  b.ID,
			Date:       b.Date,
			TicketCode: f.codes[b.TicketID],
			BookerName: b.BookerName,
			Price:      b.Price,
			Completed:  b.Completed,
			Note:       b.Note,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date.Before(rows[j].Date.Time)
		}
		return rows[i].TicketCode < rows[j].TicketCode
	})
	return rows, nil
}

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings)
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]*entity.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]*entity.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *entity.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tickets {
		if t.Code == ticket.Code {
			return entity.ErrTicketAlreadyExists
		}
	}

	f.nextID++
	ticket.ID = f.nextID
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id int64) (*entity.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tickets[id]
	if !ok {
		return nil, entity.ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) GetAllActive(_ context.Context) ([]*entity.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*entity.Ticket
	for _, t := range f.tickets {
		if t.IsActive {
			copied := *t
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (f *fakeTicketRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickets), nil
}

func (f *fakeTicketRepo) Deactivate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tickets[id]
	if !ok {
		return entity.ErrTicketNotFound
	}
	t.IsActive = false
	return nil
}

// testEnv wires fakes into a full service stack without a cache.
type testEnv struct {
	bookingRepo  *fakeBookingRepo
	ticketRepo   *fakeTicketRepo
	availability AvailabilityService
	bookings     BookingService
	tickets      TicketService
}

func newTestEnv() *testEnv {
	bookingRepo := newFakeBookingRepo()
	ticketRepo := newFakeTicketRepo()
	availability := NewAvailabilityService(bookingRepo, ticketRepo, nil)

	return &testEnv{
		bookingRepo:  bookingRepo,
		ticketRepo:   ticketRepo,
		availability: availability,
		bookings:     NewBookingService(bookingRepo, ticketRepo, availability, nil),
		tickets:      NewTicketService(ticketRepo),
	}
}

func (e *testEnv) addTicket(code string) *entity.Ticket {
	ticket := &entity.Ticket{Code: code, IsActive: true}
	if err := e.ticketRepo.Create(context.Background(), ticket); err != nil {
		panic(err)
	}
	e.bookingRepo.codes[ticket.ID] = code
	return ticket
}

func (e *testEnv) addBooking(ticketID int64, date entity.Date, booker string) *entity.Booking {
	booking := &entity.Booking{
		TicketID:   ticketID,
		Date:       date,
		BookerName: booker,
		Price:      25,
	}
	if err := e.bookingRepo.Create(context.Background(), booking); err != nil {
		panic(err)
	}
	return booking
}
