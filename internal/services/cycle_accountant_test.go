package services

import (
	"testing"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleAccountant(t *testing.T) {
	a := NewCycleAccountant(DefaultRules())

	state := a.AddDriving(domain.CycleState{HoursUsed: 69.5}, 120)
	assert.InDelta(t, 71.5, state.HoursUsed, 1e-9)
	assert.True(t, a.RestartDue(state))
	assert.False(t, a.RestartDue(domain.CycleState{HoursUsed: 69.99}))
	assert.True(t, a.RestartDue(domain.CycleState{HoursUsed: 70}))

	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	day, clock, reset, err := a.Restart(NewDutyClock(start))
	require.NoError(t, err)

	require.Len(t, day.Entries, 1)
	assert.Equal(t, domain.StatusOffDuty, day.Entries[0].Status)
	assert.Equal(t, RestartDurationMinutes, day.Entries[0].Minutes)
	assert.Equal(t, start, day.Entries[0].Start)
	assert.Equal(t, domain.DutyTotals{OffDuty: RestartDurationMinutes}, day.Totals)
	assert.Equal(t, start.Add(34*time.Hour), clock.Now())
	assert.Zero(t, reset.HoursUsed)
}
