package repositories

import (
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
)

// Stored JSON shape of a trip's computed result. It matches the API payload
// so stored results can be served back unchanged.
type geometryRecord struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type routeRecord struct {
	DistanceMiles float64        `json:"distance_miles"`
	DurationMin   float64        `json:"duration_min"`
	Geometry      geometryRecord `json:"geometry"`
}

type segmentRecord struct {
	Status  string    `json:"status"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes int       `json:"minutes"`
}

type totalsRecord struct {
	Driving          int `json:"driving"`
	OnDutyNotDriving int `json:"on_duty_not_driving"`
	OffDuty          int `json:"off_duty"`
	Sleeper          int `json:"sleeper"`
}

type dayRecord struct {
	Date    string          `json:"date"`
	Entries []segmentRecord `json:"entries"`
	Totals  totalsRecord    `json:"totals"`
}

type resultRecord struct {
	Route routeRecord `json:"route"`
	Logs  []dayRecord `json:"logs"`
}

func toGeometryRecord(coords []domain.Coordinates) geometryRecord {
	out := geometryRecord{Type: "LineString", Coordinates: make([][]float64, 0, len(coords))}
	for _, c := range coords {
		out.Coordinates = append(out.Coordinates, c.CoordsToList())
	}
	return out
}

func (g geometryRecord) coordinates() ([]domain.Coordinates, error) {
	out := make([]domain.Coordinates, 0, len(g.Coordinates))
	for i, p := range g.Coordinates {
		if len(p) != 2 {
			return nil, fmt.Errorf("geometry point %d has %d values", i, len(p))
		}
		out = append(out, domain.Coordinates{Lon: p[0], Lat: p[1]})
	}
	return out, nil
}

func toResultRecord(t *domain.Trip) resultRecord {
	logs := make([]dayRecord, 0, len(t.Logs))
	for _, d := range t.Logs {
		entries := make([]segmentRecord, 0, len(d.Entries))
		for _, e := range d.Entries {
			entries = append(entries, segmentRecord{
				Status:  string(e.Status),
				Start:   e.Start,
				End:     e.End,
				Minutes: e.Minutes,
			})
		}
		logs = append(logs, dayRecord{
			Date:    d.Date.Format(time.DateOnly),
			Entries: entries,
			Totals: totalsRecord{
				Driving:          d.Totals.Driving,
				OnDutyNotDriving: d.Totals.OnDutyNotDriving,
				OffDuty:          d.Totals.OffDuty,
				Sleeper:          d.Totals.Sleeper,
			},
		})
	}

	return resultRecord{
		Route: routeRecord{
			DistanceMiles: t.Route.DistanceMiles,
			DurationMin:   t.Route.DurationMinutes,
			Geometry:      toGeometryRecord(t.Route.Geometry),
		},
		Logs: logs,
	}
}

// apply copies the decoded result into t.
func (r resultRecord) apply(t *domain.Trip) error {
	geometry, err := r.Route.Geometry.coordinates()
	if err != nil {
		return err
	}
	t.Route = domain.RouteSummary{
		DistanceMiles:   r.Route.DistanceMiles,
		DurationMinutes: r.Route.DurationMin,
		Geometry:        geometry,
	}

	t.Logs = make([]domain.DutyDay, 0, len(r.Logs))
	for i, d := range r.Logs {
		loc := time.UTC
		if len(d.Entries) > 0 {
			loc = d.Entries[0].Start.Location()
		}
		date, err := time.ParseInLocation(time.DateOnly, d.Date, loc)
		if err != nil {
			return fmt.Errorf("day %d: parse date %q: %w", i, d.Date, err)
		}

		day := domain.DutyDay{
			Date:    date,
			Entries: make([]domain.DutySegment, 0, len(d.Entries)),
			Totals: domain.DutyTotals{
				Driving:          d.Totals.Driving,
				OnDutyNotDriving: d.Totals.OnDutyNotDriving,
				OffDuty:          d.Totals.OffDuty,
				Sleeper:          d.Totals.Sleeper,
			},
		}
		for _, e := range d.Entries {
			day.Entries = append(day.Entries, domain.DutySegment{
				Status:  domain.DutyStatus(e.Status),
				Start:   e.Start,
				End:     e.End,
				Minutes: e.Minutes,
			})
		}
		t.Logs = append(t.Logs, day)
	}

	return nil
}
