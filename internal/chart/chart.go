// Package chart lays out the dashboard charts as plain SVG geometry.
// Templates draw the shapes; nothing here knows about HTML.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/format"
	"github.com/shopspring/decimal"
)

// Empty-state messages
const (
	NoAgeData    = "Nenhum dado de projeção por idade."
	NoTimeline   = "Nenhum evento na timeline."
	NoProjection = "Nenhum dado de projeção."
)

const defaultYTicks = 5

// Frame is the drawing area of a chart in SVG user units
type Frame struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
}

// ViewBox is the value of the svg viewBox attribute
func (f Frame) ViewBox() string {
	return fmt.Sprintf("0 0 %s %s", num(f.Width), num(f.Height))
}

// Left, Right, Top and Bottom are the plot bounds
func (f Frame) Left() float64   { return f.MarginLeft }
func (f Frame) Right() float64  { return f.Width - f.MarginRight }
func (f Frame) Top() float64    { return f.MarginTop }
func (f Frame) Bottom() float64 { return f.Height - f.MarginBottom }

// Tick is an axis label at a position along the axis
type Tick struct {
	Pos   float64
	Label string
}

type linearScale struct {
	d0, d1 float64
	r0, r1 float64
}

func (s linearScale) at(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// niceTicks returns round tick values covering [lo, hi]
func niceTicks(lo, hi float64, count int) []float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		if hi == 0 {
			return []float64{0}
		}
		lo, hi = math.Min(0, lo), math.Max(0, hi)
	}
	step := niceStep((hi - lo) / float64(count-1))
	start := math.Floor(lo/step) * step
	end := math.Ceil(hi/step) * step

	ticks := make([]float64, 0, count+2)
	for v := start; v <= end+step/2; v += step {
		ticks = append(ticks, math.Round(v/step)*step)
	}
	return ticks
}

func niceStep(raw float64) float64 {
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	residual := raw / magnitude
	switch {
	case residual <= 1:
		return magnitude
	case residual <= 2:
		return 2 * magnitude
	case residual <= 5:
		return 5 * magnitude
	default:
		return 10 * magnitude
	}
}

func valueTicks(values []float64, scale linearScale) []Tick {
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{
			Pos:   scale.at(v),
			Label: format.Compact(decimal.NewFromFloat(v)),
		})
	}
	return ticks
}

func bounds(values []float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// num prints a coordinate without noise digits
func num(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func amountFloat(a domain.Amount) float64 {
	return a.InexactFloat64()
}
