package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
)

type TripRequest struct {
	Driver          int64   `json:"driver"`
	StartDatetime   string  `json:"start_datetime"`
	CurrentLocation string  `json:"current_location"`
	PickupLocation  string  `json:"pickup_location"`
	DropoffLocation string  `json:"dropoff_location"`
	CycleHoursUsed  float64 `json:"cycle_hours_used"`
}

// MaxSimulateMinutes caps total_driving_minutes on the simulate endpoint:
// four weeks of full 11-hour driving days.
const MaxSimulateMinutes = 28 * 11 * 60

type SimulateRequest struct {
	StartDatetime       string  `json:"start_datetime"`
	TotalDrivingMinutes int     `json:"total_driving_minutes"`
	CycleHoursUsed      float64 `json:"cycle_hours_used"`
}

// Validate rejects driving totals beyond MaxSimulateMinutes. Negative values
// are left to the engine.
func (r SimulateRequest) Validate() error {
	if r.TotalDrivingMinutes > MaxSimulateMinutes {
		return fmt.Errorf("total_driving_minutes %d exceeds the maximum of %d", r.TotalDrivingMinutes, MaxSimulateMinutes)
	}
	return nil
}

type Geometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates [][]float64 `json:"coordinates" yaml:"coordinates"`
}

type Route struct {
	DistanceMiles float64  `json:"distance_miles" yaml:"distance_miles"`
	DurationMin   float64  `json:"duration_min" yaml:"duration_min"`
	Geometry      Geometry `json:"geometry" yaml:"geometry"`
}

type Entry struct {
	Status  string `json:"status" yaml:"status"`
	Start   string `json:"start" yaml:"start"`
	End     string `json:"end" yaml:"end"`
	Minutes int    `json:"minutes" yaml:"minutes"`
}

type Totals struct {
	Driving          int `json:"driving" yaml:"driving"`
	OnDutyNotDriving int `json:"on_duty_not_driving" yaml:"on_duty_not_driving"`
	OffDuty          int `json:"off_duty" yaml:"off_duty"`
	Sleeper          int `json:"sleeper" yaml:"sleeper"`
}

type DayLog struct {
	Date    string  `json:"date" yaml:"date"`
	Entries []Entry `json:"entries" yaml:"entries"`
	Totals  Totals  `json:"totals" yaml:"totals"`
}

type TripResponse struct {
	Route Route    `json:"route" yaml:"route"`
	Logs  []DayLog `json:"logs" yaml:"logs"`
}

type SimulateResponse struct {
	Logs           []DayLog `json:"logs" yaml:"logs"`
	CycleHoursUsed float64  `json:"cycle_hours_used" yaml:"cycle_hours_used"`
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseStartDatetime accepts RFC 3339 or a naive ISO 8601 local time, which
// is read as UTC.
func ParseStartDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("start_datetime is required")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("start_datetime %q is not an ISO 8601 datetime", s)
}

func FromDays(days []domain.DutyDay) []DayLog {
	out := make([]DayLog, 0, len(days))
	for _, d := range days {
		entries := make([]Entry, 0, len(d.Entries))
		for _, e := range d.Entries {
			entries = append(entries, Entry{
				Status:  string(e.Status),
				Start:   e.Start.Format(time.RFC3339),
				End:     e.End.Format(time.RFC3339),
				Minutes: e.Minutes,
			})
		}
		out = append(out, DayLog{
			Date:    d.Date.Format(time.DateOnly),
			Entries: entries,
			Totals: Totals{
				Driving:          d.Totals.Driving,
				OnDutyNotDriving: d.Totals.OnDutyNotDriving,
				OffDuty:          d.Totals.OffDuty,
				Sleeper:          d.Totals.Sleeper,
			},
		})
	}
	return out
}

func FromSimulation(r domain.SimulationResult) SimulateResponse {
	return SimulateResponse{Logs: FromDays(r.Days), CycleHoursUsed: r.Cycle.HoursUsed}
}

func FromTrip(t *domain.Trip) TripResponse {
	coords := make([][]float64, 0, len(t.Route.Geometry))
	for _, c := range t.Route.Geometry {
		coords = append(coords, c.CoordsToList())
	}

	return TripResponse{
		Route: Route{
			DistanceMiles: t.Route.DistanceMiles,
			DurationMin:   t.Route.DurationMinutes,
			Geometry:      Geometry{Type: "LineString", Coordinates: coords},
		},
		Logs: FromDays(t.Logs),
	}
}

type Driver struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DriverNumber string `json:"driver_number,omitempty"`
}
