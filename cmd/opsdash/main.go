// Command opsdash serves the operations dashboard API, writes a one-shot
// health snapshot, or streams health readings to the log.
//
// Usage:
//
//	opsdash [serve|snapshot|stream]
//
// The mode argument overrides OPSDASH_MODE. Settings come from the
// environment and an optional .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/opsdash/api"
	"github.com/jonwraymond/opsdash/cache"
	"github.com/jonwraymond/opsdash/config"
	"github.com/jonwraymond/opsdash/files"
	"github.com/jonwraymond/opsdash/health"
	"github.com/jonwraymond/opsdash/history"
	"github.com/jonwraymond/opsdash/observe"
	"github.com/jonwraymond/opsdash/resilience"
	"github.com/jonwraymond/opsdash/sample"
)

const (
	shutdownTimeout   = 5 * time.Second
	analysisCacheSize = 256
	cachePurgeEvery   = time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "opsdash:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyArgs(cfg, args); err != nil {
		return err
	}

	obs, err := observe.NewObserver(ctx, cfg.Observe())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}

	sampler := sample.New(sample.HostSource{}, sample.Config{
		AlertThreshold: cfg.AlertThreshold,
		Timeout:        cfg.SampleTimeout,
		MaxConcurrent:  cfg.MaxConcurrentSamples,
	})
	agg := health.NewAggregator(sampler, health.AggregatorConfig{
		AlertThreshold: cfg.AlertThreshold,
		DiskPath:       cfg.DiskPath,
		TopProcesses:   cfg.TopProcesses,
	})

	logger := obs.Logger()
	logger.Info(ctx, "opsdash starting",
		observe.Field{Key: "mode", Value: cfg.Mode},
		observe.Field{Key: "alert_threshold", Value: cfg.AlertThreshold},
	)

	switch cfg.Mode {
	case config.ModeSnapshot:
		return snapshot(ctx, cfg, agg, mw)
	case config.ModeStream:
		return stream(ctx, cfg, agg, mw)
	default:
		return serve(ctx, cfg, sampler, agg, obs, mw)
	}
}

// applyArgs lets the first argument select the mode.
func applyArgs(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cfg.Mode = args[0]
	return cfg.Validate()
}

func serve(ctx context.Context, cfg *config.Config, sampler *sample.Sampler, agg *health.Aggregator, obs observe.Observer, mw *observe.Middleware) error {
	logger := obs.Logger()

	fm, err := files.NewManager(cfg.FilesRoot)
	if err != nil {
		return err
	}
	fm.DetectMIME = true

	analyses := cache.NewMemoryCache(analysisCacheSize)
	loader := cache.NewLoader(analyses, cache.HashKeyer{}, cache.Policy{
		DefaultTTL: cfg.AnalyzeCacheTTL,
		MaxTTL:     cfg.AnalyzeCacheTTL,
	})

	srv, err := api.New(api.Options{
		Version:        cfg.ServiceVersion,
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		AllowedOrigins: cfg.AllowedOrigins,
	}, api.Deps{
		Sampler:    sampler,
		Aggregator: agg,
		History:    history.New(cfg.HistorySize),
		Files:      fm,
		Analyses:   loader,
		Housekeeping: resilience.NewExecutor(resilience.WithRateLimiter(
			resilience.NewRateLimiter(resilience.RateLimiterConfig{
				Rate:  cfg.HousekeepingRate,
				Burst: max(1, int(cfg.HousekeepingRate)),
			}),
		)),
		Middleware: mw,
		Logger:     logger,
		Metrics:    obs.MetricsHandler(),
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gCtx, "http server listening",
			observe.Field{Key: "addr", Value: cfg.Addr},
			observe.Field{Key: "files_root", Value: fm.Root},
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info(shutdownCtx, "http server shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cachePurgeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if n := analyses.Purge(); n > 0 {
					logger.Debug(gCtx, "analysis cache purged", observe.Field{Key: "expired", Value: n})
				}
			}
		}
	})

	return g.Wait()
}

func snapshot(ctx context.Context, cfg *config.Config, agg *health.Aggregator, mw *observe.Middleware) error {
	report, err := agg.Generate(ctx, health.Request{})
	if err != nil {
		return err
	}
	mw.Metrics().RecordReport(ctx, reading(report))
	if err := health.SaveReport(cfg.SnapshotPath, report); err != nil {
		return err
	}
	mw.Logger().Info(ctx, "health report saved",
		observe.Field{Key: "path", Value: cfg.SnapshotPath},
		observe.Field{Key: "overall_health", Value: report.OverallHealth.String()},
	)
	return nil
}

// stream logs one reading per interval until the duration elapses or ctx
// ends. A failed reading is logged and the stream continues.
func stream(ctx context.Context, cfg *config.Config, agg *health.Aggregator, mw *observe.Middleware) error {
	logger := mw.Logger()
	ctx, cancel := context.WithTimeout(ctx, cfg.StreamDuration)
	defer cancel()

	ticker := time.NewTicker(cfg.StreamInterval)
	defer ticker.Stop()

	for {
		report, err := agg.Generate(ctx, health.Request{})
		switch {
		case ctx.Err() != nil:
			logger.Info(context.Background(), "monitoring stopped")
			return nil
		case err != nil:
			logger.Warn(ctx, "health reading failed", observe.Field{Key: "error", Value: err.Error()})
		default:
			mw.Metrics().RecordReport(ctx, reading(report))
			logger.Info(ctx, streamLine(report),
				observe.Field{Key: "cpu_percent", Value: report.CPU.UsagePercent},
				observe.Field{Key: "memory_percent", Value: report.Memory.Percent},
				observe.Field{Key: "disk_percent", Value: report.Disk.Percent},
				observe.Field{Key: "overall_health", Value: report.OverallHealth.String()},
			)
		}

		select {
		case <-ctx.Done():
			logger.Info(context.Background(), "monitoring stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func streamLine(r health.Report) string {
	return fmt.Sprintf("CPU: %.1f%% | Memory: %.1f%% | Disk: %.1f%% | Status: %s",
		r.CPU.UsagePercent, r.Memory.Percent, r.Disk.Percent, r.OverallHealth)
}

func reading(r health.Report) observe.HostReading {
	return observe.HostReading{
		CPUPercent:    r.CPU.UsagePercent,
		MemoryPercent: r.Memory.Percent,
		DiskPercent:   r.Disk.Percent,
		Status:        r.OverallHealth.String(),
	}
}
