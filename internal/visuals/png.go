package visuals

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToRender is returned when the projection has no series for the requested chart.
var ErrNothingToRender = errors.New("nothing to render")

// PNGOptions sizes the rendered image.
type PNGOptions struct {
	Title  string
	Width  int
	Height int
}

func (o PNGOptions) withDefaults() PNGOptions {
	if o.Width <= 0 {
		o.Width = 960
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	return o
}

var (
	viewedColor    = chart.ColorBlue
	notViewedColor = chart.ColorAlternateGray
	trendColors    = []drawing.Color{chart.ColorGreen, chart.ColorOrange, chart.ColorRed, chart.ColorCyan}
)

// CountsPNG renders one viewed/not-viewed bar per category that has a pair. The
// bars are drawn as shares of each category's total; the Mermaid output keeps the
// absolute count axis.
func CountsPNG(cd analysis.ChartData, opt PNGOptions) ([]byte, error) {
	if !cd.ShowStacked || len(cd.Points) == 0 {
		return nil, fmt.Errorf("counts chart: %w", ErrNothingToRender)
	}
	o := opt.withDefaults()
	viewed := cd.CountValues(analysis.SeriesViewed)
	notViewed := cd.CountValues(analysis.SeriesNotViewed)

	var bars []chart.StackedBar
	for i, cat := range cd.Categories {
		if !viewed[i].Valid || !notViewed[i].Valid {
			continue
		}
		bars = append(bars, chart.StackedBar{
			Name: cat,
			Values: []chart.Value{
				{Label: "Viewed", Value: viewed[i].Value, Style: chart.Style{FillColor: viewedColor, StrokeColor: viewedColor}},
				{Label: "Not Viewed", Value: notViewed[i].Value, Style: chart.Style{FillColor: notViewedColor, StrokeColor: notViewedColor}},
			},
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("counts chart: %w", ErrNothingToRender)
	}
	sbc := chart.StackedBarChart{
		Title:      titled(o.Title, "Share of Students Viewed"),
		Width:      o.Width,
		Height:     o.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := sbc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render counts chart: %w", err)
	}
	return buf.Bytes(), nil
}

// TrendsPNG renders the percent lines on a fixed [0,100] axis. Interior gaps are
// interpolated; leading and trailing gaps are left out of the line.
func TrendsPNG(cd analysis.ChartData, opt PNGOptions) ([]byte, error) {
	if len(cd.TrendSeries) == 0 || len(cd.Points) == 0 {
		return nil, fmt.Errorf("trend chart: %w", ErrNothingToRender)
	}
	o := opt.withDefaults()

	series := []chart.Series{}
	for i, s := range cd.TrendSeries {
		vals := cd.TrendValues(s.Key)
		if s.ConnectNulls {
			vals = analysis.ConnectNulls(vals)
		}
		col := trendColors[i%len(trendColors)]
		st := chart.Style{StrokeColor: col, StrokeWidth: 2, DotColor: col, DotWidth: 3}
		var xs, ys []float64
		for x, v := range vals {
			if v.Valid {
				xs = append(xs, float64(x))
				ys = append(ys, v.Value)
			}
		}
		switch len(xs) {
		case 0:
			continue
		case 1:
			// a single point needs a second sample for the x-range
			xs = []float64{xs[0], xs[0] + 0.001}
			ys = []float64{ys[0], ys[0]}
		}
		series = append(series, chart.ContinuousSeries{Name: s.Label, XValues: xs, YValues: ys, Style: st})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("trend chart: %w", ErrNothingToRender)
	}

	ticks := make([]chart.Tick, len(cd.Categories))
	for i, c := range cd.Categories {
		ticks[i] = chart.Tick{Value: float64(i), Label: c}
	}
	xMax := float64(max(len(cd.Categories)-1, 1))
	yTicks := []chart.Tick{{Value: 0, Label: "0"}, {Value: 25, Label: "25"}, {Value: 50, Label: "50"}, {Value: 75, Label: "75"}, {Value: 100, Label: "100"}}

	ch := chart.Chart{
		Title:      titled(o.Title, legend(cd.TrendSeries)),
		Width:      o.Width,
		Height:     o.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: xMax}, Ticks: ticks},
		YAxis: chart.YAxis{
			Name:  "%",
			Range: &chart.ContinuousRange{Min: cd.PercentDomain[0], Max: cd.PercentDomain[1]},
			Ticks: yTicks,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}
