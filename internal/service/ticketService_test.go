package service

import (
	"context"
	"strings"
	"testing"

	"github.com/brickandmorty/ticketbooker/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultTickets(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.tickets.EnsureDefaultTickets(ctx, 10))

	tickets, err := env.tickets.ListActiveTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 10)
	assert.Equal(t, "KT-001", tickets[0].Code)
	assert.Equal(t, "KT-010", tickets[9].Code)

	// A second run leaves the pool untouched
	require.NoError(t, env.tickets.EnsureDefaultTickets(ctx, 10))
	tickets, err = env.tickets.ListActiveTickets(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 10)
}

func TestEnsureDefaultTickets_SkipsNonEmptyRegistry(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addTicket("CUSTOM-1")

	require.NoError(t, env.tickets.EnsureDefaultTickets(ctx, 10))

	tickets, err := env.tickets.ListActiveTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "CUSTOM-1", tickets[0].Code)
}

func TestCreateTicket(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	ticket, err := env.tickets.CreateTicket(ctx, "  KT-100  ")
	require.NoError(t, err)
	assert.Equal(t, "KT-100", ticket.Code)
	assert.True(t, ticket.IsActive)

	_, err = env.tickets.CreateTicket(ctx, "KT-100")
	assert.ErrorIs(t, err, entity.ErrTicketAlreadyExists)
}

func TestCreateTicket_Validation(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "empty code", code: ""},
		{name: "whitespace-only code", code: "  "},
		{name: "code too long", code: strings.Repeat("x", 21)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			_, err := env.tickets.CreateTicket(context.Background(), tt.code)
			assert.ErrorIs(t, err, entity.ErrInvalidInput)
		})
	}
}

func TestDeactivateTicket(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	k1 := env.addTicket("K1")
	env.addTicket("K2")

	require.NoError(t, env.tickets.DeactivateTicket(ctx, k1.ID))

	tickets, err := env.tickets.ListActiveTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "K2", tickets[0].Code)

	// Deactivated tickets disappear from availability views as well
	snapshot, err := env.availability.Recompute(ctx, date(2024, 1, 1), 5)
	require.NoError(t, err)
	require.Len(t, snapshot.Tickets, 1)
	assert.Equal(t, "K2", snapshot.Tickets[0].TicketCode)
}

func TestDeactivateTicket_Unknown(t *testing.T) {
	env := newTestEnv()

	err := env.tickets.DeactivateTicket(context.Background(), 99)
	assert.ErrorIs(t, err, entity.ErrTicketNotFound)
}
