package services

import (
	"testing"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statuses(day domain.DutyDay) []domain.DutyStatus {
	out := make([]domain.DutyStatus, 0, len(day.Entries))
	for _, e := range day.Entries {
		out = append(out, e.Status)
	}
	return out
}

func minutes(day domain.DutyDay) []int {
	out := make([]int, 0, len(day.Entries))
	for _, e := range day.Entries {
		out = append(out, e.Minutes)
	}
	return out
}

func TestDailyAllocatorAllocate(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		remaining     int
		wantStatuses  []domain.DutyStatus
		wantMinutes   []int
		wantRemaining int
		wantAdvance   int
	}{
		{
			name:          "nothing to drive",
			remaining:     0,
			wantStatuses:  []domain.DutyStatus{},
			wantMinutes:   []int{},
			wantRemaining: 0,
			wantAdvance:   0,
		},
		{
			name:          "short leg",
			remaining:     300,
			wantStatuses:  []domain.DutyStatus{domain.StatusDriving},
			wantMinutes:   []int{300},
			wantRemaining: 0,
			wantAdvance:   300,
		},
		{
			name:          "exactly at break threshold",
			remaining:     480,
			wantStatuses:  []domain.DutyStatus{domain.StatusDriving},
			wantMinutes:   []int{480},
			wantRemaining: 0,
			wantAdvance:   480,
		},
		{
			name:          "one minute past threshold",
			remaining:     481,
			wantStatuses:  []domain.DutyStatus{domain.StatusDriving, domain.StatusBreak, domain.StatusDriving},
			wantMinutes:   []int{480, 30, 1},
			wantRemaining: 0,
			wantAdvance:   511,
		},
		{
			name:          "capped at daily maximum",
			remaining:     1000,
			wantStatuses:  []domain.DutyStatus{domain.StatusDriving, domain.StatusBreak, domain.StatusDriving},
			wantMinutes:   []int{480, 30, 180},
			wantRemaining: 340,
			wantAdvance:   690,
		},
	}

	a := NewDailyAllocator(DefaultRules())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Allocate(NewDutyClock(start), tt.remaining)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatuses, statuses(got.Day))
			assert.Equal(t, tt.wantMinutes, minutes(got.Day))
			assert.Equal(t, tt.wantRemaining, got.Remaining)
			assert.Equal(t, tt.remaining-tt.wantRemaining, got.Driven)
			assert.Equal(t, start.Add(time.Duration(tt.wantAdvance)*time.Minute), got.Clock.Now())
		})
	}
}

func TestDailyAllocatorSeveralBreaksPerDay(t *testing.T) {
	rules := DefaultRules()
	rules.BreakThreshold = 200

	got, err := NewDailyAllocator(rules).Allocate(NewDutyClock(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)), 700)
	require.NoError(t, err)

	assert.Equal(t, []int{200, 30, 200, 30, 200, 30, 60}, minutes(got.Day))
	assert.Equal(t, 660, got.Day.Totals.Driving)
	assert.Equal(t, 90, got.Day.Totals.OnDutyNotDriving)
	assert.Equal(t, 40, got.Remaining)
}

func TestDailyAllocatorThresholdAboveDailyCap(t *testing.T) {
	rules := DefaultRules()
	rules.BreakThreshold = 900

	got, err := NewDailyAllocator(rules).Allocate(NewDutyClock(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)), 2000)
	require.NoError(t, err)

	assert.Equal(t, []int{660}, minutes(got.Day))
	assert.Equal(t, 1340, got.Remaining)
}

func TestDailyAllocatorGuardsAgainstStalling(t *testing.T) {
	rules := DefaultRules()
	rules.BreakThreshold = 0

	_, err := NewDailyAllocator(rules).Allocate(NewDutyClock(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)), 100)
	require.ErrorIs(t, err, ErrNoProgress)
}
