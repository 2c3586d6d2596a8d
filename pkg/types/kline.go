package types

import (
	"fmt"
	"time"
)

// KLine is a single OHLCV row. Prices are plain float64 since the chart
// only reads them for plotting, it never does money arithmetic on them.
type KLine struct {
	StartTime Time `json:"startTime"`

	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func (k KLine) String() string {
	return fmt.Sprintf("%s O:%.2f H:%.2f L:%.2f C:%.2f V:%.2f",
		time.Time(k.StartTime).Format("2006-01-02 15:04"), k.Open, k.High, k.Low, k.Close, k.Volume)
}

// PriceFrame is the full price history the chart is constructed with,
// indexed by integer step. It is immutable for the chart's lifetime.
type PriceFrame []KLine

func (f PriceFrame) Len() int {
	return len(f)
}

// Slice returns the rows of the given window. The window end is inclusive.
func (f PriceFrame) Slice(w Window) PriceFrame {
	return f[w.Start : w.End+1]
}

func (f PriceFrame) Dates() (times []time.Time) {
	for _, k := range f {
		times = append(times, k.StartTime.Time())
	}
	return times
}

func (f PriceFrame) Closes() (values Float64Slice) {
	for _, k := range f {
		values.Push(k.Close)
	}
	return values
}

func (f PriceFrame) Highs() (values Float64Slice) {
	for _, k := range f {
		values.Push(k.High)
	}
	return values
}

func (f PriceFrame) Volumes() (values Float64Slice) {
	for _, k := range f {
		values.Push(k.Volume)
	}
	return values
}

// Window is the half-derived step range [Start, End], End inclusive.
type Window struct {
	Start int
	End   int
}

// NewWindow clamps the window start at zero so early steps render a
// shorter window instead of a negative slice.
func NewWindow(currentStep, windowSize int) Window {
	start := currentStep - windowSize
	if start < 0 {
		start = 0
	}
	return Window{Start: start, End: currentStep}
}

func (w Window) Len() int {
	return w.End - w.Start + 1
}

func (w Window) Contains(step int) bool {
	return step >= w.Start && step <= w.End
}
