package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testFrame(n int) (frame PriceFrame) {
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price := 100.0 + float64(i)
		frame = append(frame, KLine{
			StartTime: Time(start.Add(time.Duration(i) * time.Hour)),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price + 0.5,
			Volume:    1000 + float64(i),
		})
	}
	return frame
}

func TestNewWindow(t *testing.T) {
	w := NewWindow(250, 200)
	assert.Equal(t, 50, w.Start)
	assert.Equal(t, 250, w.End)
	assert.Equal(t, 201, w.Len())

	// early steps clamp at zero instead of going negative
	w = NewWindow(10, 200)
	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 10, w.End)
	assert.Equal(t, 11, w.Len())

	w = NewWindow(0, 200)
	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 0, w.End)
	assert.Equal(t, 1, w.Len())
}

func TestWindowContains(t *testing.T) {
	w := NewWindow(250, 200)
	assert.True(t, w.Contains(50))
	assert.True(t, w.Contains(250))
	assert.False(t, w.Contains(49))
	assert.False(t, w.Contains(251))
}

func TestPriceFrameSlice(t *testing.T) {
	frame := testFrame(300)
	w := NewWindow(250, 200)

	rows := frame.Slice(w)
	assert.Equal(t, w.Len(), rows.Len())
	assert.Equal(t, frame[50], rows[0])
	assert.Equal(t, frame[250], rows[rows.Len()-1])
}

func TestPriceFrameAccessors(t *testing.T) {
	frame := testFrame(3)

	dates := frame.Dates()
	assert.Len(t, dates, 3)
	assert.Equal(t, time.Hour, dates[1].Sub(dates[0]))

	assert.Equal(t, Float64Slice{100.5, 101.5, 102.5}, frame.Closes())
	assert.Equal(t, Float64Slice{101, 102, 103}, frame.Highs())
	assert.Equal(t, Float64Slice{1000, 1001, 1002}, frame.Volumes())
}
