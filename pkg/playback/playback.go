package playback

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantvis/livechart/pkg/chart"
	"github.com/quantvis/livechart/pkg/types"
)

var log = logrus.WithField("component", "playback")

// Playback replays a price frame through the agent step by step and
// renders one chart frame per step.
type Playback struct {
	frame      types.PriceFrame
	chart      *chart.TradingChart
	agent      *Agent
	benchmarks []types.Benchmark

	windowSize int
	interval   time.Duration

	// OnFrame, when set, observes every rendered frame.
	OnFrame func(frame *chart.Frame)
}

func New(frame types.PriceFrame, c *chart.TradingChart, agent *Agent, initialBalance float64, windowSize int, interval time.Duration) *Playback {
	return &Playback{
		frame: frame,
		chart: c,
		agent: agent,
		benchmarks: []types.Benchmark{
			BuyAndHold(frame, initialBalance),
			HoldCash(frame.Len(), initialBalance),
		},
		windowSize: windowSize,
		interval:   interval,
	}
}

// Run steps through the whole frame or until ctx is canceled.
func (p *Playback) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for step := 0; step < p.frame.Len(); step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		p.agent.Step(p.frame, step)

		frame, err := p.chart.Render(ctx, step, p.agent.NetWorths(), p.benchmarks, p.agent.Trades(), p.windowSize)
		if err != nil {
			return err
		}

		if p.OnFrame != nil {
			p.OnFrame(frame)
		}
	}

	log.Infof("playback finished after %d steps with %d trades", p.frame.Len(), len(p.agent.Trades()))
	return nil
}
