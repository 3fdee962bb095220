// Package app assembles the ledger, its persistence and the optional remote sync
// from configuration. Both the API and the TUI start through it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/safespend/internal/auth"
	"github.com/MrJamesThe3rd/safespend/internal/config"
	"github.com/MrJamesThe3rd/safespend/internal/database"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/localstore"
	"github.com/MrJamesThe3rd/safespend/internal/matching"
	"github.com/MrJamesThe3rd/safespend/internal/matching/memory"
	matchingStore "github.com/MrJamesThe3rd/safespend/internal/matching/store"
	"github.com/MrJamesThe3rd/safespend/internal/remotesync"
	"github.com/MrJamesThe3rd/safespend/internal/remotesync/amqp"
	syncStore "github.com/MrJamesThe3rd/safespend/internal/remotesync/store"
)

type App struct {
	Store     *ledger.Store
	Rules     *matching.Service
	File      *localstore.File
	persister *localstore.Persister
	syncer    *remotesync.Syncer
	db        *sql.DB
	closers   []func() error
}

// New loads the local ledger and wires persistence. When sync is configured and
// the access token verifies, the ledger is replaced by the remote state and later
// changes are pushed to the remote.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	file := localstore.New(cfg.App.DataFile)

	doc, err := file.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	a := &App{
		Store: ledger.New(doc),
		File:  file,
	}

	if cfg.NeedsDatabase() {
		db, err := database.New(ctx, cfg.ConnectionString(), cfg.PoolOptions())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		a.db = db
		a.closers = append(a.closers, db.Close)

		if err := syncStore.Migrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	if cfg.Rules.Postgres {
		a.Rules = matching.NewService(matchingStore.New(a.db))
	} else {
		a.Rules = matching.NewService(memory.New())
	}

	if err := a.setupSync(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}

	a.persister = localstore.NewPersister(file, a.Store)

	return a, nil
}

func (a *App) setupSync(ctx context.Context, cfg *config.Config) error {
	if cfg.Sync.Backend == config.SyncNone {
		return nil
	}

	userID, err := authenticate(cfg)
	if err != nil {
		slog.Warn("remote sync disabled", "backend", cfg.Sync.Backend, "error", err)
		return nil
	}

	remote := syncStore.New(a.db)

	var pusher remotesync.Pusher = remote

	if cfg.Sync.Backend == config.SyncAMQP {
		client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			return fmt.Errorf("connecting to AMQP: %w", err)
		}

		a.closers = append(a.closers, client.Close)
		pusher = client
	}

	if err := remotesync.Hydrate(ctx, remote, userID, a.Store); err != nil {
		slog.Error("failed to hydrate ledger, keeping local state", "error", err)
	} else if err := a.File.Save(a.Store.Snapshot()); err != nil {
		slog.Error("failed to save hydrated ledger", "path", a.File.Path(), "error", err)
	}

	a.syncer = remotesync.New(a.Store, pusher, userID, remotesync.Options{
		QueueSize:   cfg.Sync.QueueSize,
		MaxAttempts: cfg.Sync.MaxAttempts,
		BaseDelay:   cfg.Sync.BaseDelay,
		MaxDelay:    cfg.Sync.MaxDelay,
	})
	a.Store.Subscribe(a.syncer)

	slog.Info("remote sync enabled", "backend", cfg.Sync.Backend, "user_id", userID)

	return nil
}

func authenticate(cfg *config.Config) (uuid.UUID, error) {
	return auth.NewTokenService(cfg.Sync.JWTSecret).ParseToken(cfg.Sync.AccessToken)
}

// SyncEnabled reports whether changes are being pushed to a remote.
func (a *App) SyncEnabled() bool {
	return a.syncer != nil
}

// Run drives the background workers until ctx is done. The ledger file is
// flushed once more on the way out.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.persister.Run(ctx) })

	if a.syncer != nil {
		g.Go(func() error { return a.syncer.Run(ctx) })
	}

	return g.Wait()
}

func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}
