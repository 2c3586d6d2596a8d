package config

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/quantvis/livechart/pkg/chart"
	"github.com/quantvis/livechart/pkg/types"
)

type Config struct {
	// Symbol is only cosmetic, it titles the viewer page.
	Symbol string `json:"symbol" yaml:"symbol"`

	// CSVPath points at the OHLCV dataset to replay.
	CSVPath string `json:"csvPath" yaml:"csvPath"`

	Interval types.Interval `json:"interval" yaml:"interval"`

	WindowSize int `json:"windowSize" yaml:"windowSize"`

	ChartWidth  int `json:"chartWidth" yaml:"chartWidth"`
	ChartHeight int `json:"chartHeight" yaml:"chartHeight"`

	InitialBalance float64 `json:"initialBalance" yaml:"initialBalance"`

	// StepInterval is the playback delay between steps.
	StepInterval types.Duration `json:"stepInterval" yaml:"stepInterval"`
}

func Default() *Config {
	return &Config{
		Symbol:         "BTCUSDT",
		Interval:       types.Interval1h,
		WindowSize:     chart.DefaultWindowSize,
		ChartWidth:     chart.DefaultWidth,
		ChartHeight:    chart.DefaultHeight,
		InitialBalance: 10000.0,
		StepInterval:   types.Duration(200 * time.Millisecond),
	}
}

// Load reads a yaml config file over the defaults. Unknown keys are an
// error so typos don't silently fall back to defaults.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can not read config file %s", path)
	}

	c, err := Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "can not parse config file %s", path)
	}
	return c, nil
}

func Parse(content []byte) (*Config, error) {
	c := Default()

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, err
	}

	return c, nil
}
