package playback

import (
	"github.com/quantvis/livechart/pkg/types"
)

// BuyAndHold converts the initial balance to the asset at the first
// close and holds it, producing the usual comparison curve.
func BuyAndHold(frame types.PriceFrame, initialBalance float64) types.Benchmark {
	var values types.Float64Slice

	if frame.Len() > 0 {
		first := frame[0].Close
		for _, k := range frame {
			values.Push(initialBalance * k.Close / first)
		}
	}

	return types.Benchmark{Label: "Buy and Hold", Values: values}
}

// HoldCash is the flat do-nothing curve at the initial balance.
func HoldCash(steps int, initialBalance float64) types.Benchmark {
	values := make(types.Float64Slice, steps)
	for i := range values {
		values[i] = initialBalance
	}

	return types.Benchmark{Label: "Hold Cash", Values: values}
}
