package app

import (
	"context"
	"errors"
	"time"

	"weightlog/internal/domain"
	"weightlog/internal/stats"
)

// ChartsService assembles per-day dashboard chart data.
type ChartsService struct {
	tracker  *Tracker
	pressure *PressureLog
}

// NewChartsService creates a ChartsService over the given logs.
func NewChartsService(tracker *Tracker, pressure *PressureLog) *ChartsService {
	return &ChartsService{tracker: tracker, pressure: pressure}
}

// DayPoint is a single data point returned by GetDaily. Pointer
// fields are nil for days without data.
type DayPoint struct {
	Day       string   `json:"day"`
	Weight    *float64 `json:"weight,omitempty"`
	BodyFat   *float64 `json:"bodyFat,omitempty"`
	Trend     *float64 `json:"trend,omitempty"`
	Systolic  *float64 `json:"systolic,omitempty"`
	Diastolic *float64 `json:"diastolic,omitempty"`
}

// GetDaily returns chart points for the trailing days window ending
// today. The trend column is computed over the whole log and then
// sampled on the visible days; same-day pressure readings are
// averaged. Too few entries for a trend just leaves that column
// empty.
func (s *ChartsService) GetDaily(ctx context.Context, days int, method stats.Method, window int) ([]DayPoint, error) {
	if days <= 0 {
		days = 30
	}
	if days > 366 {
		days = 366
	}

	entries := s.tracker.OrderedEntries()
	byDay := make(map[string]domain.Entry, len(entries))
	for _, e := range entries {
		byDay[e.Day] = e
	}

	trend := make(map[string]float64)
	if len(entries) > 0 {
		points, err := stats.Trend(entries, method, window)
		switch {
		case err == nil:
			for _, p := range points {
				trend[p.Day] = p.Value
			}
		case errors.Is(err, stats.ErrInsufficientData):
			// charts still render raw weights
		default:
			return nil, err
		}
	}

	readings, err := s.pressure.Readings(ctx)
	if err != nil {
		return nil, err
	}
	type acc struct{ sys, dia, n float64 }
	pressureByDay := make(map[string]*acc)
	for _, r := range readings {
		a := pressureByDay[r.Day]
		if a == nil {
			a = &acc{}
			pressureByDay[r.Day] = a
		}
		a.sys += float64(r.Systolic)
		a.dia += float64(r.Diastolic)
		a.n++
	}

	today := time.Now().In(time.Local)
	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		dayStr := today.AddDate(0, 0, -i).Format(domain.DayFormat)
		p := DayPoint{Day: dayStr}
		if e, ok := byDay[dayStr]; ok {
			w := e.Weight
			p.Weight = &w
			p.BodyFat = e.BodyFat
		}
		if v, ok := trend[dayStr]; ok {
			tv := v
			p.Trend = &tv
		}
		if a, ok := pressureByDay[dayStr]; ok {
			sys := a.sys / a.n
			dia := a.dia / a.n
			p.Systolic = &sys
			p.Diastolic = &dia
		}
		points = append(points, p)
	}
	return points, nil
}
