package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/govalues/decimal"
	"github.com/joho/godotenv"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/config"
	"github.com/tinoosan/cashflow/internal/httpapi"
	"github.com/tinoosan/cashflow/internal/ids"
	"github.com/tinoosan/cashflow/internal/service/engine"
	"github.com/tinoosan/cashflow/internal/service/report"
	"github.com/tinoosan/cashflow/internal/storage/memory"
	pgstore "github.com/tinoosan/cashflow/internal/storage/postgres"
	"github.com/tinoosan/cashflow/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Local overrides from .env when present; the environment wins.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := buildLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	chart := cashflow.DefaultChart()
	engCfg, err := engineConfig(cfg)
	if err != nil {
		logger.Error("invalid engine configuration", "err", err)
		os.Exit(1)
	}

	var (
		repo    engine.Repo
		writer  engine.Writer
		ready   httpapi.ReadyChecker
		closeFn func()
	)
	switch {
	case strings.TrimSpace(cfg.DatabaseURL) != "":
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		repo, writer, ready = pg, pg, pg
		closeFn = pg.Close
		logger.Info("storage backend: postgres")
	case cfg.Backend == "sqlite":
		st, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("failed to open sqlite store", "err", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		repo, writer, ready = st, st, st
		closeFn = func() { _ = st.Close() }
		logger.Info("storage backend: sqlite", "path", cfg.SQLiteDBPath)
	default:
		st := memory.New()
		repo, writer, ready = st, st, st
		logger.Info("storage backend: memory")
	}

	svc := engine.New(repo, writer, chart, ids.UUID{}, engCfg, logger)
	if err := svc.Bootstrap(ctx); err != nil {
		logger.Error("bootstrap failed", "err", err)
		if closeFn != nil {
			closeFn()
		}
		os.Exit(1)
	}
	reports := report.New(chart, engCfg.Seed.Facility)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.New(svc, reports, chart, ready, logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("cashflow service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// engineConfig turns the string-typed process configuration into the typed
// engine configuration, starting from the engine defaults.
func engineConfig(cfg *config.Config) (engine.Config, error) {
	start := cashflow.DateOf(time.Now())
	if cfg.SeedStart != "" {
		d, err := cashflow.ParseDate(cfg.SeedStart)
		if err != nil {
			return engine.Config{}, err
		}
		start = d
	}
	out := engine.DefaultConfig(start)
	out.Currency = cfg.Currency
	out.Scenarios = cfg.Scenarios
	out.Seed.Days = cfg.SeedDays
	out.Link.OffsetDays = cfg.LinkOffsetDays
	if cfg.SupplierCategory != "" {
		out.Link.SupplierCategoryID = cfg.SupplierCategory
	}
	if cfg.SupportCategory != "" {
		out.Link.SupportCategoryID = cfg.SupportCategory
	}
	if cfg.RepaymentCategory != "" {
		out.Link.RepaymentCategoryID = cfg.RepaymentCategory
	}

	var err error
	if out.Seed.OpeningBalance, err = decimal.Parse(cfg.SeedOpeningBalance); err != nil {
		return engine.Config{}, err
	}
	if out.Seed.Facility.Limit, err = decimal.Parse(cfg.FacilityLimit); err != nil {
		return engine.Config{}, err
	}
	if out.Seed.Facility.Taken, err = decimal.Parse(cfg.FacilityTaken); err != nil {
		return engine.Config{}, err
	}
	if out.Link.CarryRate, err = decimal.Parse(cfg.LinkCarryRate); err != nil {
		return engine.Config{}, err
	}
	return out, nil
}

// parseLogLevel maps env values to slog.Leveler.
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.LogLevel)
	if strings.ToLower(strings.TrimSpace(cfg.LogFormat)) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
