package services

import (
	"errors"
	"math"
)

// Hours-of-service thresholds used by the duty simulation.
const (
	MaxDrivingPerDay       = 660 // minutes (11 h)
	BreakThreshold         = 480 // minutes of driving since the last break (8 h)
	BreakDuration          = 30  // minutes
	InterDayOffDutyMinutes = 600 // minutes (10 h)
	CycleLimitHours        = 70.0
	RestartDurationHours   = 34.0
	RestartDurationMinutes = 34 * 60
)

// Rules parameterizes the simulation. DefaultRules mirrors the package
// constants; other values exist so the chunking loop can be exercised with
// thresholds that force several breaks per day.
type Rules struct {
	MaxDrivingPerDay       int
	BreakThreshold         int
	BreakDuration          int
	InterDayOffDutyMinutes int
	CycleLimitHours        float64
	RestartDurationHours   float64
}

func DefaultRules() Rules {
	return Rules{
		MaxDrivingPerDay:       MaxDrivingPerDay,
		BreakThreshold:         BreakThreshold,
		BreakDuration:          BreakDuration,
		InterDayOffDutyMinutes: InterDayOffDutyMinutes,
		CycleLimitHours:        CycleLimitHours,
		RestartDurationHours:   RestartDurationHours,
	}
}

// RestartMinutes is the restart duration as whole minutes.
func (r Rules) RestartMinutes() int {
	return int(math.Round(r.RestartDurationHours * 60))
}

// Validate rejects rule sets that could stall the simulation loop.
func (r Rules) Validate() error {
	if r.MaxDrivingPerDay <= 0 {
		return errors.New("hos rules: max driving per day must be positive")
	}
	if r.BreakThreshold <= 0 {
		return errors.New("hos rules: break threshold must be positive")
	}
	if r.BreakDuration <= 0 {
		return errors.New("hos rules: break duration must be positive")
	}
	if r.InterDayOffDutyMinutes <= 0 {
		return errors.New("hos rules: inter-day off duty must be positive")
	}
	if !(r.CycleLimitHours > 0) || math.IsInf(r.CycleLimitHours, 0) {
		return errors.New("hos rules: cycle limit must be a positive number of hours")
	}
	if r.RestartMinutes() <= 0 {
		return errors.New("hos rules: restart duration must be at least one minute")
	}
	return nil
}
