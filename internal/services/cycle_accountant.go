package services

import (
	"fmt"
	"trip-planner-service/internal/domain"
)

// CycleAccountant tracks hours against the rolling cycle limit and produces
// the 34-hour restart day once the limit is reached.
type CycleAccountant struct {
	rules Rules
}

func NewCycleAccountant(rules Rules) CycleAccountant {
	return CycleAccountant{rules: rules}
}

// AddDriving returns the state after a day with drivenMinutes of driving.
func (a CycleAccountant) AddDriving(state domain.CycleState, drivenMinutes int) domain.CycleState {
	return domain.CycleState{HoursUsed: state.HoursUsed + float64(drivenMinutes)/60}
}

// RestartDue reports whether the cycle limit has been reached.
func (a CycleAccountant) RestartDue(state domain.CycleState) bool {
	return state.HoursUsed >= a.rules.CycleLimitHours
}

// Restart builds the dedicated restart day: a single off-duty segment starting
// at clock. The returned cycle state is reset to zero.
func (a CycleAccountant) Restart(clock DutyClock) (domain.DutyDay, DutyClock, domain.CycleState, error) {
	var day domain.DutyDay
	minutes := a.rules.RestartMinutes()
	if _, err := day.Append(domain.StatusOffDuty, clock.Now(), minutes); err != nil {
		return domain.DutyDay{}, clock, domain.CycleState{}, fmt.Errorf("cycle restart: %w", err)
	}
	return day, clock.Advance(minutes), domain.CycleState{}, nil
}
