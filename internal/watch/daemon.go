// Package watch runs the long-lived project daemon: it re-runs prebuild when
// the project tree changes, re-captures competitor sites on a schedule, and
// exposes Prometheus metrics over HTTP.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/capture"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/events"
	"git.home.luguber.info/inful/sitebuilder/internal/history"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
	"git.home.luguber.info/inful/sitebuilder/internal/prebuild"
)

// Options configures the daemon.
type Options struct {
	ProjectPath string
	// Debounce between a file change and the prebuild rerun.
	Debounce time.Duration
}

// Daemon supervises the watcher, the capture schedule and the metrics server
// for one project.
type Daemon struct {
	opts      Options
	cfg       *config.Config
	runner    *prebuild.Runner
	recorder  *metrics.PrometheusRecorder
	registry  *prom.Registry
	store     *history.Store
	publisher *events.Publisher
	scheduler gocron.Scheduler
}

// NewDaemon wires up a daemon for the project. The project's config controls
// the metrics address, event publishing and the capture schedule.
func NewDaemon(opts Options) (*Daemon, error) {
	cfg, err := config.Load(opts.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("load site config: %w", err)
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	store, err := history.OpenProject(opts.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	publisher, err := events.Connect(cfg.Watch.NATSURL, cfg.Watch.NATSSubject)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		_ = store.Close()
		publisher.Close()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Daemon{
		opts:      opts,
		cfg:       cfg,
		runner:    prebuild.NewRunner(recorder),
		recorder:  recorder,
		registry:  registry,
		store:     store,
		publisher: publisher,
		scheduler: scheduler,
	}, nil
}

// Run blocks until the context is canceled, then shuts everything down.
func (d *Daemon) Run(ctx context.Context) error {
	ctx = observability.WithProject(ctx, d.opts.ProjectPath)

	watcher, err := NewProjectWatcher(d.opts.ProjectPath, d.opts.Debounce, d.runPrebuild)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = watcher.Stop()
	}()

	if len(d.cfg.Capture.Competitors) > 0 {
		if err := d.scheduleCaptures(); err != nil {
			return err
		}
	}
	d.scheduler.Start()
	defer func() {
		_ = d.scheduler.Shutdown()
	}()

	var metricsServer *http.Server
	if addr := d.cfg.Watch.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(d.registry))
		metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("Metrics server listening", "addr", addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Initial run so the daemon reports project status immediately.
	d.runPrebuild(ctx)

	<-ctx.Done()
	slog.Info("Shutting down watch daemon")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	d.publisher.Close()
	return d.store.Close()
}

// runPrebuild executes one prebuild run and fans the report out to history
// and the event publisher.
func (d *Daemon) runPrebuild(ctx context.Context) {
	report := d.runner.Run(ctx, d.opts.ProjectPath)
	slog.Info("Watch prebuild finished", "outcome", string(report.Outcome), "issues", len(report.Issues))

	if err := d.store.RecordRun(ctx, report); err != nil {
		slog.Error("Failed to record run", "error", err)
	}
	if err := d.publisher.PublishRun(report); err != nil {
		slog.Error("Failed to publish run event", "error", err)
	}
}

func (d *Daemon) scheduleCaptures() error {
	_, err := d.scheduler.NewJob(
		gocron.DurationJob(d.cfg.Capture.Interval),
		gocron.NewTask(d.runCaptures),
		gocron.WithName("competitor-captures"),
	)
	if err != nil {
		return fmt.Errorf("schedule captures: %w", err)
	}
	slog.Info("Scheduled competitor captures",
		"interval", d.cfg.Capture.Interval.String(),
		"sites", len(d.cfg.Capture.Competitors))
	return nil
}

// runCaptures is called by gocron on the capture interval.
func (d *Daemon) runCaptures() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	capturer := capture.NewCapturer(d.cfg.Capture, d.recorder)
	if err := capturer.Connect(ctx); err != nil {
		slog.Error("Capture run skipped", "error", err)
		return
	}
	defer func() {
		_ = capturer.Close()
	}()

	shots, errs := capturer.CaptureAll(ctx, d.opts.ProjectPath)
	for _, shot := range shots {
		if err := d.store.RecordCapture(ctx, shot.URL, shot.File, shot.TakenAt); err != nil {
			slog.Error("Failed to record capture", "error", err)
		}
	}
	for _, err := range errs {
		slog.Warn("Capture failed", "error", err)
	}
}
