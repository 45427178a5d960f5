package services

import (
	"fmt"
	"time"
)

// DutyClock is the simulation's notion of "now". It is a value type: Advance
// returns a new clock and never mutates the receiver.
type DutyClock struct {
	now     time.Time
	elapsed int
}

func NewDutyClock(start time.Time) DutyClock {
	return DutyClock{now: start}
}

// Now returns the current simulated timestamp.
func (c DutyClock) Now() time.Time { return c.now }

// Elapsed returns the minutes advanced since the clock was created.
func (c DutyClock) Elapsed() int { return c.elapsed }

// Advance moves the clock forward. Negative input is a programming error.
func (c DutyClock) Advance(minutes int) DutyClock {
	if minutes < 0 {
		panic(fmt.Sprintf("duty clock: advance by negative minutes %d", minutes))
	}
	return DutyClock{
		now:     c.now.Add(time.Duration(minutes) * time.Minute),
		elapsed: c.elapsed + minutes,
	}
}
