package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_NormalizesToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	d := DateOf(time.Date(2024, 3, 5, 23, 45, 12, 99, loc))

	assert.Equal(t, NewDate(2024, 3, 5), d)
	assert.Equal(t, "2024-03-05", d.String())

	// Normalized dates work as map keys
	set := map[Date]struct{}{d: {}}
	_, ok := set[NewDate(2024, 3, 5)]
	assert.True(t, ok)
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(2024, 2, 28)

	assert.Equal(t, NewDate(2024, 2, 29), d.AddDays(1), "2024 is a leap year")
	assert.Equal(t, NewDate(2024, 3, 1), d.AddDays(2))
	assert.Equal(t, NewDate(2023, 12, 31), NewDate(2024, 1, 1).AddDays(-1))
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Date Date `json:"date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-05"}`), &payload))
	assert.Equal(t, NewDate(2024, 3, 5), payload.Date)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-05"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"05.03.2024"}`), &payload))
}

func TestNoAvailabilityError(t *testing.T) {
	err := &NoAvailabilityError{TicketID: 7, StartDate: NewDate(2024, 1, 1), MaxDays: 365}

	assert.ErrorIs(t, err, ErrNoAvailability)
	assert.Contains(t, err.Error(), "365")
	assert.Contains(t, err.Error(), "2024-01-01")
}
