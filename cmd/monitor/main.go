package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/speedwagon-io/mantis-monitor/internal/collector/adapters"
	"github.com/speedwagon-io/mantis-monitor/internal/config"
	"github.com/speedwagon-io/mantis-monitor/internal/connectivity"
	"github.com/speedwagon-io/mantis-monitor/internal/eventlog"
	"github.com/speedwagon-io/mantis-monitor/internal/health"
	"github.com/speedwagon-io/mantis-monitor/internal/lib/logger/sl"
	"github.com/speedwagon-io/mantis-monitor/internal/metrics"
	"github.com/speedwagon-io/mantis-monitor/internal/reconciler"
	"github.com/speedwagon-io/mantis-monitor/internal/render"
	"github.com/speedwagon-io/mantis-monitor/internal/scheduler"
	"github.com/speedwagon-io/mantis-monitor/internal/telemetry"
)

const startupMessage = "dashboard initialised, waiting for sensor data"

func main() {
	configPath := flag.String("config", "", "path to config file")
	once := flag.Bool("once", false, "run a single polling cycle, log the view and exit")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log := sl.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	log.Info("starting MANTIS monitor",
		slog.String("env", cfg.Env),
		slog.String("api", cfg.API.BaseURL),
		slog.Duration("interval", cfg.Polling.Interval),
		slog.Bool("once", *once),
	)

	api := adapters.NewMantisAPIAdapter(log, adapters.MantisAPIOptions{
		BaseURL:      cfg.API.BaseURL,
		HealthURL:    cfg.API.HealthURL,
		MachinesPath: cfg.API.MachinesPath,
		AlertsPath:   cfg.API.AlertsPath,
		Timeout:      cfg.API.Timeout,
	})
	defer func() {
		if err := api.Close(); err != nil {
			log.Error("failed to close api client", sl.Err(err))
		}
	}()

	store := telemetry.NewStore(telemetry.Config{
		Capacity:      cfg.Window.MaxChartPoints,
		RULMachines:   cfg.Charts.RULMachines,
		SensorMachine: cfg.Charts.SensorMachine,
		Sensors:       cfg.Charts.Sensors,
	})
	events := eventlog.New(cfg.Window.MaxEvents)
	monitor := connectivity.NewMonitor(events)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMetrics := metrics.NewPromMetrics(reg)

	rec := reconciler.New(log, api, store, events, monitor, promMetrics, reconciler.Options{
		Thresholds: telemetry.Thresholds{
			Warning:  cfg.Thresholds.Warning,
			Critical: cfg.Thresholds.Critical,
		},
		LabelLayout: cfg.Charts.LabelLayout,
		RULScale:    cfg.Charts.RULScale,
	})

	events.Append(startupMessage, eventlog.SeverityInfo)

	publisher := render.NewPublisher(cfg.Charts.LabelLayout)
	renderers := render.Multi{publisher}
	if cfg.Render.LogViews || *once {
		renderers = append(renderers, render.NewLogRenderer(log))
	}

	manager := scheduler.NewManager(log, scheduler.Options{
		Interval:      cfg.Polling.Interval,
		CycleTimeout:  cfg.Polling.CycleTimeout,
		ClockInterval: cfg.Polling.ClockInterval,
	}, rec, renderers, publisher, promMetrics)

	if *once {
		res := manager.RunOnce(context.Background())
		if res.Err != nil {
			os.Exit(1)
		}
		return
	}

	httpServer := health.NewServer(log, cfg.HTTP.Address, publisher, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	httpServer.AddChecker(health.NewUpstreamHealthChecker(monitor.Status))
	httpServer.AddChecker(health.NewFreshnessHealthChecker(publisher.Age, 3*cfg.Polling.Interval+cfg.Polling.CycleTimeout))

	if err := httpServer.Start(); err != nil {
		log.Error("failed to start http server", sl.Err(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received signal, shutting down", slog.String("signal", sig.String()))
		cancel()
	}()

	manager.Start(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	manager.Stop()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
	}

	log.Info("monitor stopped")
}
