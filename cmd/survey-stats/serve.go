package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go-survey-stats/internal/api"
	"go-survey-stats/internal/api/handler"
	"go-survey-stats/internal/config"
	"go-survey-stats/internal/logger"
	"go-survey-stats/internal/model"
	"go-survey-stats/internal/observability"
	"go-survey-stats/internal/pipeline"
	"go-survey-stats/internal/store"
	"go-survey-stats/pkg/router"
)

const serviceName = "survey-stats"

func newServeCommand(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP job server",
		Long: `
Loads the dataset, starts the worker pool and serves the job API until
SIGINT/SIGTERM. Pending jobs are drained before exit.
`,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.Flags(), map[string]string{
				"server.addr":     "addr",
				"dataset.path":    "dataset",
				"pool.workers":    "workers",
				"results.backend": "backend",
				"journal.enabled": "journal",
				"log.level":       "log-level",
			})
			if err != nil {
				return err
			}
			return runServe(c.Context(), cfg, stdout)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.Int("workers", 0, "worker goroutines (0 = number of CPUs)")
	flags.String("backend", store.BackendFile, "results backend: file, sqlite, badger or memory")
	flags.Bool("journal", false, "record job transitions in the sqlite journal")
	flags.String("log-level", "info", "debug, info, warn or error")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	slog.SetDefault(log)

	if cfg.Trace.Stdout {
		shutdownTracer, err := observability.InitTracer(ctx, serviceName, stdout)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", "error", err)
			}
		}()
	}

	data, err := pipeline.LoadDataset(cfg.Dataset.Path)
	if err != nil {
		return err
	}

	results, err := store.Open(ctx, cfg.Results, log)
	if err != nil {
		return fmt.Errorf("open results backend: %w", err)
	}
	defer results.Close()

	var journal pipeline.Journal
	if cfg.Journal.Enabled {
		db, ok := results.(*store.SQLiteStore)
		if !ok {
			db, err = store.OpenSQLite(cfg.Results.SQLitePath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer db.Close()
			if err := db.Reset(ctx); err != nil {
				return fmt.Errorf("reset journal: %w", err)
			}
		}
		journal = db
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	svc := pipeline.NewService(pipeline.NewEngine(data), results, pipeline.Options{
		Pool:    cfg.Pool,
		Journal: journal,
		Metrics: metrics,
		Tracer:  observability.Tracer(),
		Logger:  log,
	})

	r := router.New(router.WithLogger(log), router.WithRequestContext(logger.WithRequestID))
	api.RegisterRoutes(r, handler.New(svc, log, r.Routes), metrics.Handler())
	srv := r.Server(cfg.Server.Addr)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Server.Addr, "workers", svc.Workers(), "backend", cfg.Results.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.Shutdown.Timeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := svc.Shutdown(shutdownCtx); err != nil && !errors.Is(err, model.ErrShutdown) {
			errs = append(errs, fmt.Errorf("drain jobs: %w", err))
		}
		return errors.Join(errs...)
	})

	err = g.Wait()
	log.Info("server stopped", "jobs", svc.NumJobs())
	return err
}
