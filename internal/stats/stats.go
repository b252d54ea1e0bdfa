package stats

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"weightlog/internal/domain"
)

// Method selects how a trend line is computed.
type Method string

const (
	// MethodLinear fits one least-squares line over the whole log.
	MethodLinear Method = "linear"
	// MethodMovingAverage smooths each entry with a trailing day window.
	MethodMovingAverage Method = "moving"
)

// DefaultWindow is the trailing window, in calendar days, used when
// the caller does not pick one.
const DefaultWindow = 7

var (
	ErrInsufficientData = errors.New("not enough entries")
	ErrUnknownMethod    = errors.New("unknown trend method")
	ErrBadWindow        = errors.New("window must be a positive number of days")
)

// Summary describes the state of a weight log at a glance. Pointer
// fields are nil when the log is empty.
type Summary struct {
	Latest  *domain.Entry `json:"latest,omitempty"`
	Average *float64      `json:"average,omitempty"`
	Change  *float64      `json:"change,omitempty"`
	Count   int           `json:"count"`
}

// Point is one sample of a trend line.
type Point struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// Summarize computes the latest weight, the all-time mean, and the
// net change from the earliest to the latest entry. Entry order does
// not matter. Change needs two entries to mean anything and stays nil
// below that.
func Summarize(entries []domain.Entry) Summary {
	if len(entries) == 0 {
		return Summary{}
	}
	first, last := entries[0], entries[0]
	sum := 0.0
	for _, e := range entries {
		sum += e.Weight
		if e.Day < first.Day {
			first = e
		}
		if e.Day > last.Day {
			last = e
		}
	}
	avg := sum / float64(len(entries))
	s := Summary{Latest: &last, Average: &avg, Count: len(entries)}
	if len(entries) > 1 {
		change := last.Weight - first.Weight
		s.Change = &change
	}
	return s
}

// Trend computes a trend line over entries using the given method.
// window applies to MethodMovingAverage only; zero means DefaultWindow.
func Trend(entries []domain.Entry, method Method, window int) ([]Point, error) {
	switch method {
	case MethodLinear:
		return linearFit(entries)
	case MethodMovingAverage:
		return movingAverage(entries, window)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// linearFit runs ordinary least squares over day ordinals and samples
// the fitted line once per calendar day from the earliest to the
// latest entry, gap days included.
func linearFit(entries []domain.Entry) ([]Point, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w: linear trend needs at least 2 entries, have %d",
			ErrInsufficientData, len(entries))
	}
	es := sortedByDay(entries)
	first := es[0].Date

	var sumX, sumY, sumXX, sumXY float64
	for _, e := range es {
		x := float64(dayOffset(first, e.Date))
		sumX += x
		sumY += e.Weight
		sumXX += x * x
		sumXY += x * e.Weight
	}
	n := float64(len(es))
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil, fmt.Errorf("%w: entries span a single day", ErrInsufficientData)
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	days := dayOffset(first, es[len(es)-1].Date)
	points := make([]Point, 0, days+1)
	for d := 0; d <= days; d++ {
		points = append(points, Point{
			Day:   first.AddDate(0, 0, d).Format(domain.DayFormat),
			Value: intercept + slope*float64(d),
		})
	}
	return points, nil
}

// movingAverage computes, for each entry, the mean weight over the
// trailing window of calendar days ending on the entry's own day.
// Until the log spans a full window the mean covers what is there.
func movingAverage(entries []domain.Entry, window int) ([]Point, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: moving average needs a non-empty log", ErrInsufficientData)
	}
	if window == 0 {
		window = DefaultWindow
	}
	if window < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadWindow, window)
	}
	es := sortedByDay(entries)

	points := make([]Point, 0, len(es))
	start := 0
	sum := 0.0
	for i, e := range es {
		sum += e.Weight
		for dayOffset(es[start].Date, e.Date) > window-1 {
			sum -= es[start].Weight
			start++
		}
		points = append(points, Point{Day: e.Day, Value: sum / float64(i-start+1)})
	}
	return points, nil
}

// PressureSummary aggregates blood pressure readings. Pointer fields
// are nil when there are no readings.
type PressureSummary struct {
	Latest       *domain.Reading `json:"latest,omitempty"`
	AvgSystolic  *float64        `json:"avgSystolic,omitempty"`
	AvgDiastolic *float64        `json:"avgDiastolic,omitempty"`
	Count        int             `json:"count"`
}

// SummarizeReadings computes averages over all readings and picks the
// most recent one, breaking same-day ties by insertion order.
func SummarizeReadings(readings []domain.Reading) PressureSummary {
	if len(readings) == 0 {
		return PressureSummary{}
	}
	latest := readings[0]
	var sumSys, sumDia float64
	for _, r := range readings {
		sumSys += float64(r.Systolic)
		sumDia += float64(r.Diastolic)
		if r.Day > latest.Day || (r.Day == latest.Day && r.ID > latest.ID) {
			latest = r
		}
	}
	n := float64(len(readings))
	avgSys := sumSys / n
	avgDia := sumDia / n
	return PressureSummary{
		Latest:       &latest,
		AvgSystolic:  &avgSys,
		AvgDiastolic: &avgDia,
		Count:        len(readings),
	}
}

// dayOffset returns the whole days between two midnight UTC dates.
func dayOffset(first, day time.Time) int {
	return int(day.Sub(first).Hours() / 24)
}

func sortedByDay(entries []domain.Entry) []domain.Entry {
	es := make([]domain.Entry, len(entries))
	copy(es, entries)
	sort.Slice(es, func(i, j int) bool { return es[i].Day < es[j].Day })
	return es
}
