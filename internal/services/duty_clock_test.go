package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDutyClockAdvance(t *testing.T) {
	start := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	c := NewDutyClock(start)

	next := c.Advance(90)

	assert.Equal(t, start, c.Now(), "advance must not mutate the receiver")
	assert.Equal(t, 0, c.Elapsed())
	assert.Equal(t, start.Add(90*time.Minute), next.Now())
	assert.Equal(t, 90, next.Elapsed())
	assert.Equal(t, 120, next.Advance(30).Elapsed())
	assert.Equal(t, next, next.Advance(0))
}

func TestDutyClockAdvanceNegativePanics(t *testing.T) {
	c := NewDutyClock(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC))
	assert.Panics(t, func() { c.Advance(-1) })
}
