package chart

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/time/rate"

	"github.com/quantvis/livechart/pkg/types"
)

var log = logrus.WithField("component", "chart")

const (
	// VolumeChartHeight is the fraction of the price pane reserved for
	// the volume overlay at the bottom.
	VolumeChartHeight = 0.33

	DefaultWindowSize = 200

	DefaultWidth  = 900
	DefaultHeight = 780

	// the net worth pane takes the top 2/6 of the figure
	netWorthPaneRatio = 2.0 / 6.0

	benchmarkAlpha = 76 // ~0.3
)

// TradingChart renders the three coupled panes (net worth, price,
// volume overlay) for a rolling window over a fixed price frame, and
// publishes each frame to an attached display.
type TradingChart struct {
	frame types.PriceFrame

	display Display
	limiter *rate.Limiter

	width  int
	height int
}

type Option func(*TradingChart)

// WithDisplay attaches a display; frames are broadcast to it and each
// render briefly yields so the window can repaint.
func WithDisplay(d Display) Option {
	return func(c *TradingChart) {
		c.display = d
	}
}

func WithSize(width, height int) Option {
	return func(c *TradingChart) {
		c.width = width
		c.height = height
	}
}

func NewTradingChart(frame types.PriceFrame, opts ...Option) *TradingChart {
	c := &TradingChart{
		frame:   frame,
		width:   DefaultWidth,
		height:  DefaultHeight,
		limiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProfitPercent returns the profit of the net worth series relative to
// its first value, in percent rounded to 2 decimals. Both endpoints are
// rounded to cents first so the title and the percentage agree.
func ProfitPercent(netWorths types.Float64Slice) float64 {
	current := round2(netWorths.Last())
	initial := round2(netWorths[0])
	return round2((current - initial) / initial * 100)
}

// VolumeUpperBound scales the volume axis so the filled volume series
// occupies the bottom VolumeChartHeight of the price pane.
func VolumeUpperBound(maxVolume float64) float64 {
	return maxVolume / VolumeChartHeight
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func frameTitle(netWorths types.Float64Slice) string {
	return fmt.Sprintf("Net worth: $%.2f | Profit: %.2f%%", round2(netWorths.Last()), ProfitPercent(netWorths))
}

// Render redraws all panes for the window ending at currentStep and
// broadcasts the frame. netWorths and every benchmark value series must
// have at least currentStep+1 entries; shorter input is undefined
// behavior, as is an empty series. A windowSize <= 0 selects
// DefaultWindowSize.
func (c *TradingChart) Render(
	ctx context.Context,
	currentStep int,
	netWorths types.Float64Slice,
	benchmarks []types.Benchmark,
	trades []types.Trade,
	windowSize int,
) (*Frame, error) {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	window := types.NewWindow(currentStep, windowSize)
	timeline := c.frame.Slice(window).Dates()
	title := frameTitle(netWorths)

	netWorthPane, err := c.renderNetWorthPane(title, window, timeline, currentStep, netWorths, benchmarks)
	if err != nil {
		return nil, err
	}

	pricePane, err := c.renderPricePane(window, timeline, currentStep, trades)
	if err != nil {
		return nil, err
	}

	frame := &Frame{
		Step:     currentStep,
		Title:    title,
		NetWorth: netWorthPane,
		Price:    pricePane,
	}

	log.Debugf("rendered step %d over window [%d, %d]", currentStep, window.Start, window.End)

	if c.display != nil {
		c.display.Broadcast(frame)

		// let the window repaint before the caller advances
		if err := c.limiter.Wait(ctx); err != nil {
			return frame, err
		}
	}

	return frame, nil
}

// Close releases the display window. Rendering after Close produces
// frames but publishes nothing.
func (c *TradingChart) Close() error {
	if c.display == nil {
		return nil
	}

	d := c.display
	c.display = nil
	return d.Close()
}

func (c *TradingChart) renderNetWorthPane(
	title string,
	window types.Window,
	timeline []time.Time,
	currentStep int,
	netWorths types.Float64Slice,
	benchmarks []types.Benchmark,
) ([]byte, error) {
	canvas := NewCanvas(title, c.width, c.netWorthPaneHeight())

	// the date labels live on the price pane, the panes share the axis
	canvas.XAxis.Style = chart.Hidden()
	canvas.XAxis.Range = timeRange(timeline)

	// headroom over the full history, not just the window
	canvas.YAxis = chart.YAxis{
		Range: &chart.ContinuousRange{
			Min: netWorths.Min() / 1.25,
			Max: netWorths.Max() * 1.25,
		},
	}

	canvas.Plot("Net Worth", netWorths.Slice(window), timeline, chart.Style{
		StrokeColor: chart.ColorGreen,
		StrokeWidth: 2.0,
	})

	for i, benchmark := range benchmarks {
		canvas.Plot(benchmark.Label, benchmark.Values.Slice(window), timeline, chart.Style{
			StrokeColor: PaletteColorAt(i).WithAlpha(benchmarkAlpha),
			StrokeWidth: 1.0,
		})
	}

	canvas.Legend()

	lastTime := timeline[len(timeline)-1]
	lastNetWorth := netWorths[currentStep]
	canvas.Annotate(lastTime, lastNetWorth, fmt.Sprintf("%.2f", lastNetWorth))

	var buf bytes.Buffer
	if err := canvas.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *TradingChart) renderPricePane(
	window types.Window,
	timeline []time.Time,
	currentStep int,
	trades []types.Trade,
) ([]byte, error) {
	rows := c.frame.Slice(window)
	closes := rows.Closes()
	volumes := rows.Volumes()

	canvas := NewCanvas("", c.width, c.pricePaneHeight())

	// extra bottom padding for the rotated date labels
	canvas.Background.Padding.Bottom = 60
	canvas.XAxis.TickStyle = chart.Style{
		TextRotationDegrees: 45.0,
		TextHorizontalAlign: chart.TextHorizontalAlignRight,
	}
	canvas.XAxis.Ticks = buildTimeTicks(timeline, maxDateTicks)
	canvas.XAxis.Range = timeRange(timeline)

	// shift the lower bound down to reserve space for the volume overlay
	lo, hi := closes.Min(), closes.Max()
	if hi == lo {
		// a flat window still needs a non-degenerate axis
		hi = lo + 1
	}
	canvas.YAxis = chart.YAxis{
		Range: &chart.ContinuousRange{
			Min: lo - (hi-lo)*VolumeChartHeight,
			Max: hi,
		},
	}

	// volume occupies the bottom third of the pane; its axis is
	// decorative only, so ticks stay hidden
	canvas.YAxisSecondary = chart.YAxis{
		Style: chart.Hidden(),
		Range: &chart.ContinuousRange{
			Min: 0,
			Max: VolumeUpperBound(volumes.Max()),
		},
	}

	canvas.PlotSecondary("Volume", volumes, timeline, chart.Style{
		StrokeColor: chart.ColorBlue,
		StrokeWidth: 1.0,
		FillColor:   chart.ColorBlue.WithAlpha(128),
	})

	canvas.Plot("Close", closes, timeline, chart.Style{
		StrokeColor: chart.ColorBlack,
		StrokeWidth: 1.5,
	})

	canvas.Series = append(canvas.Series, NewTradeMarkerSeries(c.frame, window, trades))

	// anchor the close label at the high so it doesn't sit on the line
	last := c.frame[currentStep]
	canvas.Annotate(last.StartTime.Time(), last.High, fmt.Sprintf("%.2f", last.Close))

	var buf bytes.Buffer
	if err := canvas.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const maxDateTicks = 6

// timeRange pins the x axis exactly to the window so both panes share
// the same span; a one-point window gets a small artificial span to
// keep the axis well defined.
func timeRange(timeline []time.Time) chart.Range {
	min := chart.TimeToFloat64(timeline[0])
	max := chart.TimeToFloat64(timeline[len(timeline)-1])
	if min == max {
		min -= float64(30 * time.Second)
		max += float64(30 * time.Second)
	}
	return &chart.ContinuousRange{Min: min, Max: max}
}

// buildTimeTicks spreads up to maxTicks labeled ticks evenly over the
// window timeline so the tick labels always sit on real data points.
func buildTimeTicks(timeline []time.Time, maxTicks int) (ticks []chart.Tick) {
	if len(timeline) == 0 {
		return nil
	}

	step := (len(timeline) + maxTicks - 1) / maxTicks
	if step < 1 {
		step = 1
	}

	for i := 0; i < len(timeline); i += step {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(timeline[i]),
			Label: timeline[i].Format(DateFormat),
		})
	}

	last := timeline[len(timeline)-1]
	if ticks[len(ticks)-1].Value != chart.TimeToFloat64(last) {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(last),
			Label: last.Format(DateFormat),
		})
	}

	return ticks
}

func (c *TradingChart) netWorthPaneHeight() int {
	return int(float64(c.height) * netWorthPaneRatio)
}

func (c *TradingChart) pricePaneHeight() int {
	return c.height - c.netWorthPaneHeight()
}
