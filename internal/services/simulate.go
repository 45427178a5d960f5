package services

import (
	"errors"
	"fmt"
	"math"
	"time"
	"trip-planner-service/internal/domain"
)

var (
	// ErrInvalidInput is returned for negative driving minutes or cycle hours.
	ErrInvalidInput = errors.New("invalid simulation input")

	// ErrNoProgress means an allocation round consumed no driving minutes
	// while some were still owed. It indicates a defect, not bad input.
	ErrNoProgress = errors.New("simulation made no progress")
)

type phase int

const (
	phaseAllocating phase = iota
	phaseRestRequired
	phaseRestarting
	phaseResting
	phaseDone
)

// simState is the accumulator threaded through every step of the loop.
// current is the day whose driving has just been allocated and which is
// waiting for the rest decision.
type simState struct {
	phase     phase
	clock     DutyClock
	remaining int
	cycle     domain.CycleState
	current   domain.DutyDay
	days      []domain.DutyDay
}

// Simulator turns a trip's driving time into a day-by-day duty log.
// It holds no mutable state; a single Simulator may be shared by goroutines.
type Simulator struct {
	rules      Rules
	allocator  DailyAllocator
	accountant CycleAccountant
}

func NewSimulator(rules Rules) (*Simulator, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("new simulator: %w", err)
	}
	return &Simulator{
		rules:      rules,
		allocator:  NewDailyAllocator(rules),
		accountant: NewCycleAccountant(rules),
	}, nil
}

var defaultSimulator = &Simulator{
	rules:      DefaultRules(),
	allocator:  NewDailyAllocator(DefaultRules()),
	accountant: NewCycleAccountant(DefaultRules()),
}

// DefaultSimulator returns the shared simulator for DefaultRules.
func DefaultSimulator() *Simulator { return defaultSimulator }

// Simulate runs the default hours-of-service rules.
func Simulate(start time.Time, totalDrivingMinutes int, cycleHoursUsed float64) (domain.SimulationResult, error) {
	return defaultSimulator.Run(start, totalDrivingMinutes, cycleHoursUsed)
}

// Rules returns the thresholds the simulator applies.
func (s *Simulator) Rules() Rules { return s.rules }

// Run produces the ordered duty days for a trip. Either the complete result
// or an error is returned, never a partial log.
func (s *Simulator) Run(start time.Time, totalDrivingMinutes int, cycleHoursUsed float64) (domain.SimulationResult, error) {
	if totalDrivingMinutes < 0 {
		return domain.SimulationResult{}, fmt.Errorf("simulate: total driving minutes %d is negative: %w", totalDrivingMinutes, ErrInvalidInput)
	}
	if cycleHoursUsed < 0 || math.IsNaN(cycleHoursUsed) || math.IsInf(cycleHoursUsed, 0) {
		return domain.SimulationResult{}, fmt.Errorf("simulate: cycle hours used %v must be a non-negative number: %w", cycleHoursUsed, ErrInvalidInput)
	}

	st := simState{
		phase:     phaseAllocating,
		clock:     NewDutyClock(start),
		remaining: totalDrivingMinutes,
		cycle:     domain.CycleState{HoursUsed: cycleHoursUsed},
		days:      []domain.DutyDay{},
	}

	var err error
	for st.phase != phaseDone {
		st, err = s.step(st)
		if err != nil {
			return domain.SimulationResult{}, fmt.Errorf("simulate: %w", err)
		}
	}

	return domain.SimulationResult{Days: st.days, Cycle: st.cycle}, nil
}

// step applies one state transition and returns the next state.
func (s *Simulator) step(st simState) (simState, error) {
	switch st.phase {
	case phaseAllocating:
		if st.remaining == 0 {
			st.phase = phaseDone
			return st, nil
		}

		alloc, err := s.allocator.Allocate(st.clock, st.remaining)
		if err != nil {
			return st, err
		}
		if alloc.Driven <= 0 || alloc.Remaining >= st.remaining {
			return st, fmt.Errorf("allocation round at %s consumed nothing of %d min: %w",
				st.clock.Now().Format(time.RFC3339), st.remaining, ErrNoProgress)
		}

		st.clock = alloc.Clock
		st.remaining = alloc.Remaining
		st.cycle = s.accountant.AddDriving(st.cycle, alloc.Driven)
		st.current = alloc.Day

		if st.remaining > 0 || s.accountant.RestartDue(st.cycle) {
			st.phase = phaseRestRequired
			return st, nil
		}
		st.days = append(st.days, st.current)
		st.current = domain.DutyDay{}
		st.phase = phaseDone
		return st, nil

	case phaseRestRequired:
		if s.accountant.RestartDue(st.cycle) {
			st.phase = phaseRestarting
		} else {
			st.phase = phaseResting
		}
		return st, nil

	case phaseRestarting:
		st.days = append(st.days, st.current)
		st.current = domain.DutyDay{}

		day, clock, cycle, err := s.accountant.Restart(st.clock)
		if err != nil {
			return st, err
		}
		st.days = append(st.days, day)
		st.clock = clock
		st.cycle = cycle
		st.phase = phaseAllocating
		return st, nil

	case phaseResting:
		if _, err := st.current.Append(domain.StatusOffDuty, st.clock.Now(), s.rules.InterDayOffDutyMinutes); err != nil {
			return st, fmt.Errorf("inter-day rest: %w", err)
		}
		st.clock = st.clock.Advance(s.rules.InterDayOffDutyMinutes)
		st.days = append(st.days, st.current)
		st.current = domain.DutyDay{}
		st.phase = phaseAllocating
		return st, nil
	}

	return st, fmt.Errorf("unknown simulation phase %d", st.phase)
}
