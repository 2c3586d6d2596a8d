package chart

import (
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/quantvis/livechart/pkg/types"
)

// DateFormat is the x tick label layout of the price pane.
const DateFormat = "01/02/2006 15:04"

// Canvas wraps a go-chart chart with timeline plotting helpers so the
// pane renderers don't repeat the series plumbing.
type Canvas struct {
	chart.Chart
}

func NewCanvas(title string, width, height int) *Canvas {
	return &Canvas{
		Chart: chart.Chart{
			Title:  title,
			Width:  width,
			Height: height,
			Background: chart.Style{
				Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
			},
			XAxis: chart.XAxis{
				ValueFormatter: chart.TimeValueFormatterWithFormat(DateFormat),
			},
		},
	}
}

// Plot appends a line series over the shared timeline.
func (canvas *Canvas) Plot(tag string, values types.Float64Slice, timeline []time.Time, style chart.Style) {
	canvas.Series = append(canvas.Series, chart.TimeSeries{
		Name:    tag,
		Style:   style,
		XValues: timeline,
		YValues: values,
	})
}

// PlotSecondary appends a line series bound to the secondary y axis.
func (canvas *Canvas) PlotSecondary(tag string, values types.Float64Slice, timeline []time.Time, style chart.Style) {
	canvas.Series = append(canvas.Series, chart.TimeSeries{
		Name:    tag,
		Style:   style,
		YAxis:   chart.YAxisSecondary,
		XValues: timeline,
		YValues: values,
	})
}

// Annotate places a boxed label anchored at (t, anchor) with the given text.
func (canvas *Canvas) Annotate(t time.Time, anchor float64, label string) {
	canvas.Series = append(canvas.Series, chart.AnnotationSeries{
		Style: chart.Style{
			StrokeColor: chart.ColorBlack,
			StrokeWidth: 1.0,
			FillColor:   chart.ColorWhite,
			FontSize:    8.0,
			FontColor:   chart.ColorBlack,
		},
		Annotations: []chart.Value2{
			{XValue: chart.TimeToFloat64(t), YValue: anchor, Label: label},
		},
	})
}

// Legend installs a small translucent legend for the plotted series.
func (canvas *Canvas) Legend() {
	canvas.Elements = []chart.Renderable{
		chart.Legend(&canvas.Chart, chart.Style{
			FontSize:  8.0,
			FillColor: chart.ColorWhite.WithAlpha(102),
		}),
	}
}

func (canvas *Canvas) Render(w io.Writer) error {
	return canvas.Chart.Render(chart.PNG, w)
}
