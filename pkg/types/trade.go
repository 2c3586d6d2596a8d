package types

import "encoding/json"

type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

func (t TradeType) String() string {
	return string(t)
}

func (t *TradeType) UnmarshalJSON(b []byte) error {
	var a string
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	*t = TradeType(a)
	return nil
}

// Trade marks a simulated order fill at a step of the price frame.
type Trade struct {
	Step int       `json:"step"`
	Type TradeType `json:"type"`
}

// Benchmark is a comparison curve aligned to the same step coordinate
// as the net worth series, e.g. buy and hold.
type Benchmark struct {
	Label  string       `json:"label"`
	Values Float64Slice `json:"values"`
}
