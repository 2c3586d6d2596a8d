package chart

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/quantvis/livechart/pkg/types"
)

var _ chart.Series = &TradeMarkerSeries{}

const arrowSize = 8

// TradeMarkerSeries draws one arrow per visible trade, anchored at the
// close price of the trade's step: green pointing up for buys, red
// pointing down for sells.
type TradeMarkerSeries struct {
	Name string

	frame  types.PriceFrame
	window types.Window
	trades []types.Trade
}

func NewTradeMarkerSeries(frame types.PriceFrame, window types.Window, trades []types.Trade) *TradeMarkerSeries {
	return &TradeMarkerSeries{
		Name:   "Trades",
		frame:  frame,
		window: window,
		trades: trades,
	}
}

// VisibleTrades filters trades down to the ones whose step falls inside
// the window.
func VisibleTrades(trades []types.Trade, window types.Window) (visible []types.Trade) {
	for _, trade := range trades {
		if window.Contains(trade.Step) {
			visible = append(visible, trade)
		}
	}
	return visible
}

func (s *TradeMarkerSeries) GetName() string {
	return s.Name
}

func (s *TradeMarkerSeries) GetStyle() chart.Style {
	return chart.Style{}
}

func (s *TradeMarkerSeries) GetYAxis() chart.YAxisType {
	return chart.YAxisPrimary
}

func (s *TradeMarkerSeries) Validate() error {
	return nil
}

func (s *TradeMarkerSeries) Render(r chart.Renderer, b chart.Box, xrange, yrange chart.Range, style chart.Style) {
	for _, trade := range VisibleTrades(s.trades, s.window) {
		k := s.frame[trade.Step]
		x := b.Left + xrange.Translate(chart.TimeToFloat64(k.StartTime.Time()))
		y := b.Bottom - yrange.Translate(k.Close)
		drawArrow(r, x, y, trade.Type)
	}
}

func drawArrow(r chart.Renderer, x, y int, tradeType types.TradeType) {
	var color drawing.Color
	if tradeType == types.TradeTypeBuy {
		color = chart.ColorGreen
	} else {
		color = chart.ColorRed
	}

	r.SetFillColor(color)
	r.MoveTo(x, y)
	if tradeType == types.TradeTypeBuy {
		// apex at the fill price, body below
		r.LineTo(x-arrowSize/2, y+arrowSize)
		r.LineTo(x+arrowSize/2, y+arrowSize)
	} else {
		r.LineTo(x-arrowSize/2, y-arrowSize)
		r.LineTo(x+arrowSize/2, y-arrowSize)
	}
	r.Close()
	r.Fill()
}
