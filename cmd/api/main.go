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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/safespend/internal/app"
	"github.com/MrJamesThe3rd/safespend/internal/config"
	"github.com/MrJamesThe3rd/safespend/internal/export"
	api "github.com/MrJamesThe3rd/safespend/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/safespend/internal/http/analytics"
	categoryHandler "github.com/MrJamesThe3rd/safespend/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/safespend/internal/http/export"
	fixedHandler "github.com/MrJamesThe3rd/safespend/internal/http/fixedexpense"
	importHandler "github.com/MrJamesThe3rd/safespend/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/safespend/internal/http/matching"
	savingsHandler "github.com/MrJamesThe3rd/safespend/internal/http/savings"
	settingsHandler "github.com/MrJamesThe3rd/safespend/internal/http/settings"
	txHandler "github.com/MrJamesThe3rd/safespend/internal/http/transaction"
	"github.com/MrJamesThe3rd/safespend/internal/importer"
	"github.com/MrJamesThe3rd/safespend/internal/importer/cgd"
	"github.com/MrJamesThe3rd/safespend/internal/savings"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var (
		savingsService = savings.NewService(a.Store)
		importService  = importer.NewService(a.Store, a.Rules, map[importer.Bank]importer.Importer{
			importer.BankCGD: cgd.NewParser(),
		})
		exportService = export.NewService(a.Store)
	)

	router := api.New(cfg.Server.AllowedOrigins, api.Handlers{
		Transactions:  txHandler.NewHandler(a.Store),
		FixedExpenses: fixedHandler.NewHandler(a.Store),
		Categories:    categoryHandler.NewHandler(a.Store),
		Savings:       savingsHandler.NewHandler(a.Store, savingsService),
		Analytics:     analyticsHandler.NewHandler(a.Store),
		Settings:      settingsHandler.NewHandler(a.Store),
		Import:        importHandler.NewHandler(importService),
		Matching:      matchingHandler.NewHandler(a.Rules),
		Export:        exportHandler.NewHandler(exportService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.Run(ctx) })

	g.Go(func() error {
		slog.Info("starting server", "port", srv.Addr, "data_file", cfg.App.DataFile, "sync", a.SyncEnabled())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
}
