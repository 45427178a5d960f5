package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSegment reports a segment the builder refused to append. Seeing it
// outside of tests means the allocator produced a zero-length or
// non-contiguous block.
var ErrInvalidSegment = errors.New("invalid duty segment")

// DutyStatus is the closed set of duty states a log entry may carry.
type DutyStatus string

const (
	StatusDriving          DutyStatus = "driving"
	StatusBreak            DutyStatus = "break"
	StatusOffDuty          DutyStatus = "off_duty"
	StatusSleeper          DutyStatus = "sleeper"
	StatusOnDutyNotDriving DutyStatus = "on_duty_not_driving"
)

// Valid reports whether s is one of the known statuses.
func (s DutyStatus) Valid() bool {
	switch s {
	case StatusDriving, StatusBreak, StatusOffDuty, StatusSleeper, StatusOnDutyNotDriving:
		return true
	}
	return false
}

// DutySegment is one contiguous block of a single status.
type DutySegment struct {
	Status  DutyStatus
	Start   time.Time
	End     time.Time
	Minutes int
}

// DutyTotals holds per-day minutes for the four log-sheet rows.
// Break segments are on-duty time and accrue to OnDutyNotDriving.
type DutyTotals struct {
	Driving          int
	OnDutyNotDriving int
	OffDuty          int
	Sleeper          int
}

func (t *DutyTotals) add(status DutyStatus, minutes int) {
	switch status {
	case StatusDriving:
		t.Driving += minutes
	case StatusBreak, StatusOnDutyNotDriving:
		t.OnDutyNotDriving += minutes
	case StatusOffDuty:
		t.OffDuty += minutes
	case StatusSleeper:
		t.Sleeper += minutes
	}
}

// DutyDay is one simulated day of the driver's log.
//
// Entries are chronological and contiguous: each entry starts where the
// previous one ended. Totals always equal the sum of the entries.
type DutyDay struct {
	Date    time.Time
	Entries []DutySegment
	Totals  DutyTotals
}

// Append builds a segment of the given status starting at start and lasting
// minutes, appends it to the day and updates the totals.
//
// The first appended segment fixes the day's Date (midnight of its start in
// the start's location).
func (d *DutyDay) Append(status DutyStatus, start time.Time, minutes int) (DutySegment, error) {
	if !status.Valid() {
		return DutySegment{}, fmt.Errorf("append segment: unknown status %q: %w", status, ErrInvalidSegment)
	}
	if minutes <= 0 {
		return DutySegment{}, fmt.Errorf("append segment: %s duration %d min must be positive: %w", status, minutes, ErrInvalidSegment)
	}
	if n := len(d.Entries); n > 0 && !d.Entries[n-1].End.Equal(start) {
		return DutySegment{}, fmt.Errorf(
			"append segment: %s starts at %s, previous entry ends at %s: %w",
			status, start.Format(time.RFC3339), d.Entries[n-1].End.Format(time.RFC3339), ErrInvalidSegment,
		)
	}

	seg := DutySegment{
		Status:  status,
		Start:   start,
		End:     start.Add(time.Duration(minutes) * time.Minute),
		Minutes: minutes,
	}

	if len(d.Entries) == 0 {
		d.Date = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	}
	d.Entries = append(d.Entries, seg)
	d.Totals.add(status, minutes)

	return seg, nil
}

// Empty reports whether no segment has been appended yet.
func (d *DutyDay) Empty() bool { return len(d.Entries) == 0 }

// End returns the end of the last entry, or the zero time for an empty day.
func (d *DutyDay) End() time.Time {
	if len(d.Entries) == 0 {
		return time.Time{}
	}
	return d.Entries[len(d.Entries)-1].End
}
