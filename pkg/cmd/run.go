package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zserge/lorca"
	"golang.org/x/sync/errgroup"

	"github.com/quantvis/livechart/pkg/chart"
	"github.com/quantvis/livechart/pkg/config"
	"github.com/quantvis/livechart/pkg/datasource"
	"github.com/quantvis/livechart/pkg/display"
	"github.com/quantvis/livechart/pkg/playback"
	"github.com/quantvis/livechart/pkg/types"
)

func init() {
	RunCmd.Flags().String("csv", "", "path to the OHLCV csv file (Date,Open,High,Low,Close,Volume)")
	RunCmd.Flags().String("symbol", "", "symbol name shown on the chart window")
	RunCmd.Flags().Int("window-size", 0, "rolling window size in steps")
	RunCmd.Flags().Duration("step-interval", 0, "delay between playback steps")
	RunCmd.Flags().Bool("headless", false, "serve the chart without opening a native window")
	RootCmd.AddCommand(RunCmd)
}

var RunCmd = &cobra.Command{
	Use:          "run [--csv=path] [--symbol=symbol]",
	Short:        "replay a csv dataset through the demo agent and chart it live",
	SilenceUsage: true,
	RunE:         run,
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if configFile := viper.GetString("config"); configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if csvPath, err := cmd.Flags().GetString("csv"); err != nil {
		return nil, err
	} else if csvPath != "" {
		cfg.CSVPath = csvPath
	}

	if symbol, err := cmd.Flags().GetString("symbol"); err != nil {
		return nil, err
	} else if symbol != "" {
		cfg.Symbol = symbol
	}

	if windowSize, err := cmd.Flags().GetInt("window-size"); err != nil {
		return nil, err
	} else if windowSize > 0 {
		cfg.WindowSize = windowSize
	}

	if stepInterval, err := cmd.Flags().GetDuration("step-interval"); err != nil {
		return nil, err
	} else if stepInterval > 0 {
		cfg.StepInterval = types.Duration(stepInterval)
	}

	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	dotenvFile := ".env.local"
	if _, err := os.Stat(dotenvFile); err == nil {
		if err := godotenv.Load(dotenvFile); err != nil {
			return err
		}
	}

	headless, err := cmd.Flags().GetBool("headless")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.CSVPath == "" {
		return fmt.Errorf("--csv is required")
	}

	frame, err := datasource.ReadKLinesFromCSV(cfg.CSVPath)
	if err != nil {
		return err
	}
	if frame.Len() == 0 {
		return fmt.Errorf("csv file %s has no rows", cfg.CSVPath)
	}

	log.Infof("loaded %d %s klines from %s", frame.Len(), cfg.Interval, cfg.CSVPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// find a free port for binding the server
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	defer ln.Close()

	baseURL := "http://" + ln.Addr().String()

	srv := display.NewServer(cfg.Symbol)
	tradingChart := chart.NewTradingChart(frame,
		chart.WithDisplay(srv),
		chart.WithSize(cfg.ChartWidth, cfg.ChartHeight),
	)
	defer tradingChart.Close()

	agent := playback.NewAgent(cfg.InitialBalance)
	pb := playback.New(frame, tradingChart, agent, cfg.InitialBalance, cfg.WindowSize, cfg.StepInterval.Duration())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.RunWithListener(gctx, ln)
	})

	g.Go(func() error {
		if err := pb.Run(gctx); err != nil && err != context.Canceled {
			return err
		}
		// keep the window open after the playback ends, until the
		// window is closed or the process is interrupted
		return nil
	})

	if headless {
		log.Infof("the chart is served at %s", baseURL)
	} else {
		g.Go(func() error {
			var uiArgs []string
			if runtime.GOOS == "linux" {
				uiArgs = append(uiArgs, "--class=livechart")
			}

			ui, err := lorca.New("", "", cfg.ChartWidth+60, cfg.ChartHeight+80, uiArgs...)
			if err != nil {
				return err
			}
			defer ui.Close()

			log.Infof("pinging the server at %s", baseURL)
			display.PingUntil(gctx, baseURL, func() {
				log.Infof("got pong, loading %s into the window", baseURL)
				if err := ui.Load(baseURL); err != nil {
					log.WithError(err).Error("failed to load page")
				}
			})

			select {
			case <-gctx.Done():
			case <-ui.Done():
				log.Infof("window closed")
				cancel()
			}
			return nil
		})
	}

	// Wait until the interrupt signal arrives or the window is closed
	g.Go(func() error {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt)
		defer signal.Stop(sigc)

		select {
		case <-sigc:
			log.Infof("interrupted, exiting...")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
