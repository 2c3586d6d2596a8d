package chart

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantvis/livechart/pkg/types"
)

var pngHeader = []byte("\x89PNG")

type recordingDisplay struct {
	frames []*Frame
	closed bool
}

func (d *recordingDisplay) Broadcast(frame *Frame) {
	d.frames = append(d.frames, frame)
}

func (d *recordingDisplay) Close() error {
	d.closed = true
	return nil
}

func testFrame(n int) (frame types.PriceFrame) {
	start := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price := 100.0 + float64(i%7)
		frame = append(frame, types.KLine{
			StartTime: types.Time(start.Add(time.Duration(i) * time.Hour)),
			Open:      price,
			High:      price + 2,
			Low:       price - 2,
			Close:     price + 1,
			Volume:    1000 + 10*float64(i%5),
		})
	}
	return frame
}

func testNetWorths(n int) (netWorths types.Float64Slice) {
	for i := 0; i < n; i++ {
		netWorths.Push(10000 + 5*float64(i))
	}
	return netWorths
}

func TestProfitPercent(t *testing.T) {
	assert.Equal(t, 10.0, ProfitPercent(types.Float64Slice{1000, 1100}))
	assert.Equal(t, -25.0, ProfitPercent(types.Float64Slice{1000, 900, 750}))
	assert.Equal(t, 3.33, ProfitPercent(types.Float64Slice{1000, 1033.333}))
}

func TestVolumeUpperBound(t *testing.T) {
	assert.InDelta(t, 100.0, VolumeUpperBound(33.0), 1e-9)
	assert.InDelta(t, 3000.0, VolumeUpperBound(990.0), 1e-9)
}

func TestRenderFrame(t *testing.T) {
	frame := testFrame(300)
	c := NewTradingChart(frame)

	netWorths := testNetWorths(251)
	benchmarks := []types.Benchmark{
		{Label: "Buy and Hold", Values: testNetWorths(300)},
		{Label: "Hold Cash", Values: testNetWorths(300)},
	}
	trades := []types.Trade{
		{Step: 10, Type: types.TradeTypeBuy},   // outside the window
		{Step: 100, Type: types.TradeTypeBuy},  // inside
		{Step: 200, Type: types.TradeTypeSell}, // inside
	}

	out, err := c.Render(context.Background(), 250, netWorths, benchmarks, trades, 200)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, 250, out.Step)
	assert.Equal(t, "Net worth: $11250.00 | Profit: 12.50%", out.Title)
	assert.True(t, bytes.HasPrefix(out.NetWorth, pngHeader), "net worth pane should be a png")
	assert.True(t, bytes.HasPrefix(out.Price, pngHeader), "price pane should be a png")
}

func TestRenderFrameEarlyStep(t *testing.T) {
	frame := testFrame(300)
	c := NewTradingChart(frame)

	// current step below the window size renders the clamped window
	out, err := c.Render(context.Background(), 5, testNetWorths(6), nil, nil, 200)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.NetWorth, pngHeader))
	assert.True(t, bytes.HasPrefix(out.Price, pngHeader))
}

func TestRenderDefaultWindowSize(t *testing.T) {
	frame := testFrame(50)
	c := NewTradingChart(frame)

	out, err := c.Render(context.Background(), 49, testNetWorths(50), nil, nil, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Price, pngHeader))
}

func TestRenderBroadcastsToDisplay(t *testing.T) {
	frame := testFrame(60)
	d := &recordingDisplay{}
	c := NewTradingChart(frame, WithDisplay(d))

	_, err := c.Render(context.Background(), 40, testNetWorths(41), nil, nil, 20)
	require.NoError(t, err)
	assert.Len(t, d.frames, 1)
}

func TestCloseReleasesDisplay(t *testing.T) {
	frame := testFrame(60)
	d := &recordingDisplay{}
	c := NewTradingChart(frame, WithDisplay(d))

	_, err := c.Render(context.Background(), 30, testNetWorths(31), nil, nil, 20)
	require.NoError(t, err)
	require.Len(t, d.frames, 1)

	require.NoError(t, c.Close())
	assert.True(t, d.closed)

	// rendering still works but nothing is published anymore
	_, err = c.Render(context.Background(), 31, testNetWorths(32), nil, nil, 20)
	require.NoError(t, err)
	assert.Len(t, d.frames, 1)

	// closing twice is fine
	assert.NoError(t, c.Close())
}
