package domain

// CycleState is the rolling 70-hour/8-day accumulator. HoursUsed only grows
// between restarts and drops to zero when a 34-hour restart is logged.
type CycleState struct {
	HoursUsed float64
}

// SimulationResult is the engine output: the ordered log days plus the cycle
// hours left on the clock after the last day.
type SimulationResult struct {
	Days  []DutyDay
	Cycle CycleState
}

// TotalDriving sums driving minutes across all days.
func (r SimulationResult) TotalDriving() int {
	total := 0
	for _, d := range r.Days {
		total += d.Totals.Driving
	}
	return total
}

// Restarts counts the dedicated 34-hour restart days in the result.
func (r SimulationResult) Restarts(restartMinutes int) int {
	n := 0
	for _, d := range r.Days {
		if len(d.Entries) == 1 && d.Entries[0].Status == StatusOffDuty && d.Entries[0].Minutes == restartMinutes {
			n++
		}
	}
	return n
}
