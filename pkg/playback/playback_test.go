package playback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantvis/livechart/pkg/chart"
)

func TestPlaybackRun(t *testing.T) {
	frame := rampFrame(40)
	tradingChart := chart.NewTradingChart(frame, chart.WithSize(400, 300))
	agent := NewAgent(10000)

	pb := New(frame, tradingChart, agent, 10000, 20, time.Millisecond)

	var frames []*chart.Frame
	pb.OnFrame = func(f *chart.Frame) {
		frames = append(frames, f)
	}

	require.NoError(t, pb.Run(context.Background()))

	require.Len(t, frames, 40)
	assert.Equal(t, 0, frames[0].Step)
	assert.Equal(t, 39, frames[39].Step)
	assert.NotEmpty(t, frames[39].NetWorth)
	assert.NotEmpty(t, frames[39].Price)

	// the agent went through every step exactly once
	assert.Len(t, agent.NetWorths(), 40)
}

func TestPlaybackCancel(t *testing.T) {
	frame := rampFrame(200)
	tradingChart := chart.NewTradingChart(frame, chart.WithSize(400, 300))
	agent := NewAgent(10000)

	pb := New(frame, tradingChart, agent, 10000, 20, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	rendered := 0
	pb.OnFrame = func(f *chart.Frame) {
		rendered++
		if rendered == 3 {
			cancel()
		}
	}

	err := pb.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, rendered, 200)
}
