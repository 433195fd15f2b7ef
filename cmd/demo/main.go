// Command demo runs a traffic-light controller on a fixed tick, exporting
// Prometheus metrics and writing a chart of the observed transitions on exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comalice/dispatchx"
	"github.com/comalice/dispatchx/internal/config"
	"github.com/comalice/dispatchx/internal/logger"
	"github.com/comalice/dispatchx/internal/production"
	"github.com/comalice/dispatchx/realtime"
)

// Config is read from DISPATCHX_* variables and an optional .env file.
type Config struct {
	MachineID   string        `env:"DISPATCHX_MACHINE_ID" envDefault:"traffic-light"`
	TickRate    time.Duration `env:"DISPATCHX_TICK_RATE" envDefault:"500ms"`
	MaxTicks    uint64        `env:"DISPATCHX_MAX_TICKS"`
	LogLevel    string        `env:"DISPATCHX_LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"DISPATCHX_LOG_FORMAT" envDefault:"text"`
	MetricsAddr string        `env:"DISPATCHX_METRICS_ADDR"`
	ChartFile   string        `env:"DISPATCHX_CHART_FILE"`
	ChartFormat string        `env:"DISPATCHX_CHART_FORMAT" envDefault:"dot"`

	// Phase lengths in ticks.
	RedTicks    int `env:"DISPATCHX_RED_TICKS" envDefault:"6"`
	GreenTicks  int `env:"DISPATCHX_GREEN_TICKS" envDefault:"5"`
	YellowTicks int `env:"DISPATCHX_YELLOW_TICKS" envDefault:"2"`
}

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("demo failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(cfg Config) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(os.Stderr),
		logger.WithAttr(slog.String("service", "dispatchx-demo")),
	), nil
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := production.NewMetricsPublisher(reg)
	if err != nil {
		return err
	}

	graph := production.NewGraphRecorder()
	events := make(chan dispatchx.Transition, 64)
	channel := production.NewChannelPublisher(events)

	table, err := buildTrafficLight(cfg)
	if err != nil {
		return fmt.Errorf("build table: %w", err)
	}

	d, err := dispatchx.New(0, table, &lightState{},
		dispatchx.WithID[*lightState](cfg.MachineID),
		dispatchx.WithLogger[*lightState](log),
		dispatchx.WithPublisher[*lightState](metrics),
		dispatchx.WithPublisher[*lightState](graph),
		dispatchx.WithPublisher[*lightState](channel),
		dispatchx.WithMiddleware(dispatchx.LoggingMiddleware[*lightState](log, slog.LevelDebug)),
	)
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("metrics server shutdown", slog.Any("error", err))
			}
		}()
	}

	loop := realtime.NewLoop(d, realtime.Config{
		TickRate: cfg.TickRate,
		MaxTicks: cfg.MaxTicks,
	},
		realtime.WithLogger[*lightState](log),
		realtime.WithOnTick[*lightState](tickObserver(metrics, d)),
	)

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for t := range events {
			log.Info("light changed", slog.String("from", t.From), slog.String("to", t.To), slog.Uint64("seq", t.Seq))
		}
	}()

	if err := loop.Start(ctx); err != nil {
		return err
	}
	<-loop.Done()
	loopErr := loop.Stop()

	// The loop goroutine has exited; nothing publishes any more.
	channel.Close()
	<-drained
	if n := channel.Dropped(); n > 0 {
		log.Warn("transitions dropped", slog.Uint64("count", n))
	}

	if cfg.ChartFile != "" {
		var chart production.Chart
		loop.Inspect(func(d *dispatchx.Dispatcher[*lightState]) {
			chart = production.NewChart(d, graph)
		})
		if err := writeChart(cfg.ChartFile, cfg.ChartFormat, chart); err != nil {
			return errors.Join(loopErr, err)
		}
		log.Info("chart written", slog.String("file", cfg.ChartFile), slog.String("format", cfg.ChartFormat))
	}
	return loopErr
}

// tickObserver counts ticks under the dispatcher's effective id, which is a
// random UUID when none was configured.
func tickObserver(m *production.MetricsPublisher, d interface{ ID() string }) func(uint64, bool) {
	id := d.ID()
	return func(_ uint64, busy bool) {
		m.ObserveTick(id, busy)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	return srv
}

func writeChart(path, format string, chart production.Chart) error {
	v := &production.DefaultVisualizer{}
	data, err := v.Export(chart, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
