package domain

import (
	"fmt"

	"github.com/dafibh/planner/planner-web/internal/util"
)

// ProjectionPoint is one year of the net-worth forecast returned by the API
type ProjectionPoint struct {
	Year        int    `json:"year"`
	Total       Amount `json:"total"`
	Financeiro  Amount `json:"financeiro"`
	Imobilizado Amount `json:"imobilizado"`
}

// TimelineEvent is a discrete life event with a signed monetary impact
type TimelineEvent struct {
	Year   int    `json:"year"`
	Event  string `json:"event"`
	Impact Amount `json:"impact"`
}

// ProjectionSettings controls which years the dashboard treats as "now" and
// as the snapshot horizons, and the age shown for the reference year.
type ProjectionSettings struct {
	ReferenceYear  int
	HorizonOffsets []int
	BaseAge        int
}

// DefaultProjectionSettings mirrors the fixed demo baseline: 2025 at age 45,
// with snapshots 10 and 20 years ahead.
func DefaultProjectionSettings() ProjectionSettings {
	return ProjectionSettings{
		ReferenceYear:  2025,
		HorizonOffsets: []int{0, 10, 20},
		BaseAge:        45,
	}
}

// AgeSnapshot is the projected total at one horizon
type AgeSnapshot struct {
	Label string `json:"name"`
	Age   int    `json:"age"`
	Year  int    `json:"year"`
	Total Amount `json:"total"`
}

// SeriesPoint is a projection point without its total
type SeriesPoint struct {
	Year        int    `json:"year"`
	Financeiro  Amount `json:"financeiro"`
	Imobilizado Amount `json:"imobilizado"`
}

// RankedEvent is a timeline event with its position among events of the same year.
// The rank only separates overlapping points; it carries no magnitude.
type RankedEvent struct {
	TimelineEvent
	Rank int `json:"y"`
}

// FindPoint returns the point whose year equals year exactly
func FindPoint(points []ProjectionPoint, year int) (ProjectionPoint, bool) {
	for _, p := range points {
		if p.Year == year {
			return p, true
		}
	}
	return ProjectionPoint{}, false
}

// NetWorth returns the total of the point at referenceYear, or zero when absent
func NetWorth(points []ProjectionPoint, referenceYear int) Amount {
	if p, ok := FindPoint(points, referenceYear); ok {
		return p.Total
	}
	return Amount{}
}

// AgeSnapshots returns one snapshot per horizon with an exact-year match.
// Horizons without a match are omitted; nothing is interpolated.
func AgeSnapshots(points []ProjectionPoint, settings ProjectionSettings) []AgeSnapshot {
	snapshots := make([]AgeSnapshot, 0, len(settings.HorizonOffsets))
	years := util.HorizonYears(settings.ReferenceYear, settings.HorizonOffsets)
	for i, year := range years {
		p, ok := FindPoint(points, year)
		if !ok {
			continue
		}
		age := settings.BaseAge + settings.HorizonOffsets[i]
		snapshots = append(snapshots, AgeSnapshot{
			Label: fmt.Sprintf("%d anos", age),
			Age:   age,
			Year:  year,
			Total: p.Total,
		})
	}
	return snapshots
}

// DetailSeries drops the total from every point, keeping order
func DetailSeries(points []ProjectionPoint) []SeriesPoint {
	series := make([]SeriesPoint, 0, len(points))
	for _, p := range points {
		series = append(series, SeriesPoint{
			Year:        p.Year,
			Financeiro:  p.Financeiro,
			Imobilizado: p.Imobilizado,
		})
	}
	return series
}

// RankTimeline numbers events 1..N within each year, in input order
func RankTimeline(events []TimelineEvent) []RankedEvent {
	counts := make(map[int]int)
	ranked := make([]RankedEvent, 0, len(events))
	for _, e := range events {
		counts[e.Year]++
		ranked = append(ranked, RankedEvent{TimelineEvent: e, Rank: counts[e.Year]})
	}
	return ranked
}
