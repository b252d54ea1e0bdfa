package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	adapthttp "weightlog/internal/adapter/http"
	"weightlog/internal/adapter/memory"
	"weightlog/internal/adapter/sqlite"
	"weightlog/internal/app"
	"weightlog/internal/config"
	"weightlog/internal/domain"
	"weightlog/internal/logging"
	"weightlog/internal/metrics"
	"weightlog/internal/watch"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Setup(logging.SetupParams{
		LogFileName:   cfg.Logging.Path,
		LogToStdout:   cfg.Logging.ToStdout,
		LogLevel:      cfg.Logging.Level,
		LogFormatJSON: cfg.Logging.JSON,
	})

	log.WithFields(log.Fields{
		"address": cfg.Server.Address(),
		"backend": cfg.Storage.Backend,
		"webDir":  cfg.Server.WebDir,
	}).Info("configuration loaded")

	validator := domain.Validator{FutureDates: cfg.Validation.Policy()}

	// The sqlite backend writes through on every change. The memory
	// backend keeps the log in process memory with the CSV file as its
	// durable copy, saved explicitly or on shutdown.
	var entryStore domain.EntryStore
	var readingStore domain.ReadingStore
	closeStore := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, openErr := sqlite.Open(cfg.Storage.SQLitePath)
		if openErr != nil {
			return fmt.Errorf("open sqlite: %w", openErr)
		}
		closeStore = db.Close
		entryStore = db
		readingStore = db
	case config.BackendMemory:
		readingStore = memory.New()
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	tracker := app.NewTracker(validator, entryStore)
	if entryStore != nil {
		if loadErr := tracker.LoadFromStore(ctx); loadErr != nil {
			return fmt.Errorf("load entries: %w", loadErr)
		}
		log.WithField("entries", tracker.Len()).Info("entries loaded from store")
	}

	if cfg.Storage.Backend == config.BackendMemory && cfg.Storage.CSVPath != "" {
		count, importErr := tracker.ImportCSV(ctx, cfg.Storage.CSVPath)
		switch {
		case errors.Is(importErr, fs.ErrNotExist):
			log.WithField("path", cfg.Storage.CSVPath).Info("no csv file yet, starting empty")
		case importErr != nil:
			return fmt.Errorf("import csv: %w", importErr)
		default:
			log.WithFields(log.Fields{
				"path":    cfg.Storage.CSVPath,
				"entries": count,
			}).Info("csv imported")
		}
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewManager("weightlog", "server", reg)
	m.GaugeLogDays.Set(float64(tracker.Len()))

	pressure := app.NewPressureLog(validator, readingStore)
	charts := app.NewChartsService(tracker, pressure)
	srv := adapthttp.New(cfg, tracker, pressure, charts, m, reg)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: srv.Handler(),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Storage.WatchCSV {
		if cfg.Storage.Backend == config.BackendMemory {
			g.Go(func() error {
				return watch.Watch(gCtx, tracker, cfg.Storage.CSVPath, func(count int) {
					m.GaugeLogDays.Set(float64(count))
				})
			})
		} else {
			log.Warn("watch_csv only applies to the memory backend, ignoring")
		}
	}

	g.Go(func() error {
		log.WithField("address", cfg.Server.Address()).Info("http server starting")
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", serveErr)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			log.WithField("signal", sig.String()).Info("shutdown signal received")
		case <-gCtx.Done():
		}
		// Stops the csv watcher as well, otherwise Wait never returns.
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			log.WithError(shutdownErr).Error("http server shutdown")
		}
		return nil
	})

	err = g.Wait()

	// A volatile session may hold unsaved entries, flush them before exit.
	if tracker.Dirty() && cfg.Storage.CSVPath != "" {
		if saveErr := tracker.ExportCSV(cfg.Storage.CSVPath); saveErr != nil {
			log.WithError(saveErr).Error("final csv save failed")
		} else {
			log.WithField("path", cfg.Storage.CSVPath).Info("unsaved entries written to csv")
		}
	}

	if closeErr := closeStore(); closeErr != nil {
		log.WithError(closeErr).Error("store close failed")
	}

	if err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "weightlog",
		Usage:  "Personal weight tracking dashboard with CSV import/export and trend charts",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config.toml",
				Sources: cli.EnvVars("WEIGHTLOG_CONFIG"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Error("application error")
		os.Exit(1)
	}
}
