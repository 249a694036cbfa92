package chart

import (
	"math"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/format"
)

var barFrame = Frame{Width: 480, Height: 200, MarginTop: 20, MarginRight: 20, MarginBottom: 28, MarginLeft: 72}

// Bar is one age snapshot
type Bar struct {
	X, Y, Width, Height float64
	LabelX              float64
	Label               string
	Tooltip             string
}

// BarChart is the age snapshot chart
type BarChart struct {
	Frame
	Bars         []Bar
	YTicks       []Tick
	Baseline     float64
	Empty        bool
	EmptyMessage string
}

// AgeSnapshotBars lays out one bar per snapshot, in snapshot order
func AgeSnapshotBars(snapshots []domain.AgeSnapshot) BarChart {
	chart := BarChart{Frame: barFrame, EmptyMessage: NoAgeData}
	if len(snapshots) == 0 {
		chart.Empty = true
		return chart
	}

	values := make([]float64, len(snapshots))
	for i, s := range snapshots {
		values[i] = amountFloat(s.Total)
	}
	lo, hi := bounds(values)
	ticks := niceTicks(lo, hi, defaultYTicks)
	y := linearScale{d0: ticks[0], d1: ticks[len(ticks)-1], r0: barFrame.Bottom(), r1: barFrame.Top()}

	chart.YTicks = valueTicks(ticks, y)
	chart.Baseline = y.at(0)

	band := (barFrame.Right() - barFrame.Left()) / float64(len(snapshots))
	width := band * 0.6
	for i, s := range snapshots {
		top := y.at(values[i])
		x := barFrame.Left() + band*float64(i) + (band-width)/2
		chart.Bars = append(chart.Bars, Bar{
			X:       x,
			Y:       math.Min(top, chart.Baseline),
			Width:   width,
			Height:  math.Abs(chart.Baseline - top),
			LabelX:  x + width/2,
			Label:   s.Label,
			Tooltip: format.Currency(s.Total.Decimal),
		})
	}
	return chart
}
