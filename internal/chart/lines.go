package chart

import (
	"strconv"
	"strings"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/format"
)

var lineFrame = Frame{Width: 720, Height: 300, MarginTop: 16, MarginRight: 16, MarginBottom: 32, MarginLeft: 80}

// Series legends
const (
	FinancialLabel = "Patrimônio Financeiro"
	FixedLabel     = "Patrimônio Imobilizado"
)

// Vertex is a data point of a line, with its hover text
type Vertex struct {
	X, Y    float64
	Tooltip string
}

// Line is one series drawn as an SVG polyline
type Line struct {
	Key      string
	Label    string
	Points   string
	Vertices []Vertex
}

// LineChart is the main projection chart
type LineChart struct {
	Frame
	Lines        []Line
	XTicks       []Tick
	YTicks       []Tick
	Empty        bool
	EmptyMessage string
}

// ProjectionLines draws the financial and fixed assets series over the years
func ProjectionLines(series []domain.SeriesPoint) LineChart {
	chart := LineChart{Frame: lineFrame, EmptyMessage: NoProjection}
	if len(series) == 0 {
		chart.Empty = true
		return chart
	}

	values := make([]float64, 0, len(series)*2)
	for _, p := range series {
		values = append(values, amountFloat(p.Financeiro), amountFloat(p.Imobilizado))
	}
	lo, hi := bounds(values)
	ticks := niceTicks(lo, hi, defaultYTicks)
	y := linearScale{d0: ticks[0], d1: ticks[len(ticks)-1], r0: lineFrame.Bottom(), r1: lineFrame.Top()}
	x := linearScale{
		d0: float64(series[0].Year),
		d1: float64(series[len(series)-1].Year),
		r0: lineFrame.Left(),
		r1: lineFrame.Right(),
	}

	chart.YTicks = valueTicks(ticks, y)
	chart.XTicks = yearTicks(series, x)

	financial := Line{Key: "financeiro", Label: FinancialLabel}
	fixed := Line{Key: "imobilizado", Label: FixedLabel}
	for _, p := range series {
		px := x.at(float64(p.Year))
		financial.Vertices = append(financial.Vertices, Vertex{
			X: px, Y: y.at(amountFloat(p.Financeiro)),
			Tooltip: strconv.Itoa(p.Year) + " · " + FinancialLabel + ": " + format.Currency(p.Financeiro.Decimal),
		})
		fixed.Vertices = append(fixed.Vertices, Vertex{
			X: px, Y: y.at(amountFloat(p.Imobilizado)),
			Tooltip: strconv.Itoa(p.Year) + " · " + FixedLabel + ": " + format.Currency(p.Imobilizado.Decimal),
		})
	}
	financial.Points = polyline(financial.Vertices)
	fixed.Points = polyline(fixed.Vertices)
	chart.Lines = []Line{financial, fixed}
	return chart
}

// yearTicks labels at most maxYearTicks evenly spaced years, always keeping the last
func yearTicks(series []domain.SeriesPoint, x linearScale) []Tick {
	const maxYearTicks = 10
	every := (len(series) + maxYearTicks - 1) / maxYearTicks
	ticks := make([]Tick, 0, maxYearTicks+1)
	for i, p := range series {
		if i%every == 0 || i == len(series)-1 {
			ticks = append(ticks, Tick{Pos: x.at(float64(p.Year)), Label: strconv.Itoa(p.Year)})
		}
	}
	return ticks
}

func polyline(vertices []Vertex) string {
	parts := make([]string, 0, len(vertices))
	for _, v := range vertices {
		parts = append(parts, num(v.X)+","+num(v.Y))
	}
	return strings.Join(parts, " ")
}
