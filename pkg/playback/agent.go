package playback

import (
	"github.com/quantvis/livechart/pkg/types"
)

// Agent is a small moving average crossover trader used to produce the
// net worth series and trade markers for the live chart. It is a demo
// signal source, not a strategy.
type Agent struct {
	FastWindow int
	SlowWindow int

	balance  float64
	position float64

	netWorths types.Float64Slice
	trades    []types.Trade
}

func NewAgent(initialBalance float64) *Agent {
	return &Agent{
		FastWindow: 10,
		SlowWindow: 30,
		balance:    initialBalance,
	}
}

// Step advances the agent to the given step of the frame. Steps must be
// fed in order, one call per step.
func (a *Agent) Step(frame types.PriceFrame, step int) {
	price := frame[step].Close

	if step >= a.SlowWindow {
		closes := frame[:step+1].Closes()
		fast := closes.Tail(a.FastWindow).Mean()
		slow := closes.Tail(a.SlowWindow).Mean()

		if fast > slow && a.position == 0 {
			a.position = a.balance / price
			a.balance = 0
			a.trades = append(a.trades, types.Trade{Step: step, Type: types.TradeTypeBuy})
		} else if fast < slow && a.position > 0 {
			a.balance = a.position * price
			a.position = 0
			a.trades = append(a.trades, types.Trade{Step: step, Type: types.TradeTypeSell})
		}
	}

	a.netWorths.Push(a.balance + a.position*price)
}

func (a *Agent) NetWorths() types.Float64Slice {
	return a.netWorths
}

func (a *Agent) Trades() []types.Trade {
	return a.trades
}
