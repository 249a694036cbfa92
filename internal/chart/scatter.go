package chart

import (
	"fmt"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/format"
)

var scatterFrame = Frame{Width: 720, Height: 400, MarginTop: 20, MarginRight: 20, MarginBottom: 32, MarginLeft: 20}

// Dot is one timeline event
type Dot struct {
	X, Y     float64
	Year     int
	Event    string
	Impact   string
	Positive bool
	Tooltip  string
}

// ScatterChart is the timeline of events
type ScatterChart struct {
	Frame
	Dots         []Dot
	XTicks       []Tick
	MinYear      int
	MaxYear      int
	Empty        bool
	EmptyMessage string
}

// TimelineScatter places each event at (year, rank). The year axis is padded
// by one year on each side and labels only years that have events.
func TimelineScatter(events []domain.RankedEvent) ScatterChart {
	chart := ScatterChart{Frame: scatterFrame, EmptyMessage: NoTimeline}
	if len(events) == 0 {
		chart.Empty = true
		return chart
	}

	minYear, maxYear := events[0].Year, events[0].Year
	maxRank := 1
	for _, e := range events {
		if e.Year < minYear {
			minYear = e.Year
		}
		if e.Year > maxYear {
			maxYear = e.Year
		}
		if e.Rank > maxRank {
			maxRank = e.Rank
		}
	}
	chart.MinYear, chart.MaxYear = minYear-1, maxYear+1

	x := linearScale{d0: float64(chart.MinYear), d1: float64(chart.MaxYear), r0: scatterFrame.Left(), r1: scatterFrame.Right()}
	y := linearScale{d0: 0, d1: float64(maxRank + 1), r0: scatterFrame.Bottom(), r1: scatterFrame.Top()}

	seen := make(map[int]bool)
	for _, e := range events {
		if !seen[e.Year] {
			seen[e.Year] = true
			chart.XTicks = append(chart.XTicks, Tick{Pos: x.at(float64(e.Year)), Label: fmt.Sprint(e.Year)})
		}

		impact := format.Currency(e.Impact.Decimal)
		chart.Dots = append(chart.Dots, Dot{
			X:        x.at(float64(e.Year)),
			Y:        y.at(float64(e.Rank)),
			Year:     e.Year,
			Event:    e.Event,
			Impact:   impact,
			Positive: e.Impact.IsPositive(),
			Tooltip:  fmt.Sprintf("%d\n%s\nImpacto: %s", e.Year, e.Event, impact),
		})
	}
	return chart
}
