package services

import (
	"fmt"
	"trip-planner-service/internal/domain"
)

// DayAllocation is the outcome of filling one day with driving.
type DayAllocation struct {
	Day       domain.DutyDay
	Clock     DutyClock
	Remaining int // trip driving minutes still unallocated
	Driven    int // driving minutes logged on Day
}

// DailyAllocator fills a single day with driving chunks, capping the day at
// MaxDrivingPerDay and inserting a break whenever BreakThreshold minutes have
// been driven since the last break and more driving follows.
type DailyAllocator struct {
	rules Rules
}

func NewDailyAllocator(rules Rules) DailyAllocator {
	return DailyAllocator{rules: rules}
}

// Allocate drives up to one day's quota starting at clock. When remaining is
// zero the returned day is empty and must not be logged.
func (a DailyAllocator) Allocate(clock DutyClock, remaining int) (DayAllocation, error) {
	out := DayAllocation{Clock: clock, Remaining: remaining}
	if remaining <= 0 {
		return out, nil
	}

	quota := min(remaining, a.rules.MaxDrivingPerDay)
	sinceBreak := 0

	for quota > 0 && out.Driven < a.rules.MaxDrivingPerDay {
		chunk := min(quota, a.rules.MaxDrivingPerDay-out.Driven, a.rules.BreakThreshold-sinceBreak)
		if chunk <= 0 {
			return DayAllocation{}, fmt.Errorf(
				"allocate day: zero-length chunk with %d min quota left (driven=%d since_break=%d): %w",
				quota, out.Driven, sinceBreak, ErrNoProgress,
			)
		}

		if _, err := out.Day.Append(domain.StatusDriving, out.Clock.Now(), chunk); err != nil {
			return DayAllocation{}, fmt.Errorf("allocate day: %w", err)
		}
		out.Clock = out.Clock.Advance(chunk)
		quota -= chunk
		out.Remaining -= chunk
		out.Driven += chunk
		sinceBreak += chunk

		// A break is only owed when driving continues today.
		if sinceBreak == a.rules.BreakThreshold && quota > 0 {
			if _, err := out.Day.Append(domain.StatusBreak, out.Clock.Now(), a.rules.BreakDuration); err != nil {
				return DayAllocation{}, fmt.Errorf("allocate day: %w", err)
			}
			out.Clock = out.Clock.Advance(a.rules.BreakDuration)
			sinceBreak = 0
		}
	}

	return out, nil
}
