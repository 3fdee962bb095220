// Package remotesync forwards ledger changes to a remote backend. The local store stays
// authoritative: pushes happen after the fact and failures never undo a mutation.
package remotesync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

//go:generate mockgen -source=remotesync.go -destination=remote_mock.go -package=remotesync
type Pusher interface {
	Apply(ctx context.Context, m Mutation) error
}

type Puller interface {
	Pull(ctx context.Context, userID uuid.UUID) (Rows, error)
}

// Source provides the state changes are resolved against.
type Source interface {
	Snapshot() ledger.Document
}

type Options struct {
	QueueSize   int
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}

	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}

	if o.BaseDelay <= 0 {
		o.BaseDelay = 500 * time.Millisecond
	}

	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}

	return o
}

// Syncer is a ledger listener with a bounded outbound queue.
type Syncer struct {
	source Source
	pusher Pusher
	userID uuid.UUID
	opts   Options
	queue  chan ledger.Change
}

func New(source Source, pusher Pusher, userID uuid.UUID, opts Options) *Syncer {
	opts = opts.withDefaults()

	return &Syncer{
		source: source,
		pusher: pusher,
		userID: userID,
		opts:   opts,
		queue:  make(chan ledger.Change, opts.QueueSize),
	}
}

// OnChange enqueues c without blocking. When the queue is full the change is dropped.
func (s *Syncer) OnChange(c ledger.Change) {
	select {
	case s.queue <- c:
	default:
		slog.Warn("sync queue full, dropping change", "entity", c.Entity, "id", c.ID, "op", c.Op)
	}
}

// Pending returns the number of queued changes.
func (s *Syncer) Pending() int {
	return len(s.queue)
}

// Run pushes queued changes until ctx is done.
func (s *Syncer) Run(ctx context.Context) error {
	slog.Info("sync worker started", "user_id", s.userID)

	for {
		select {
		case <-ctx.Done():
			slog.Info("sync worker stopped", "pending", len(s.queue))
			return nil
		case c := <-s.queue:
			if err := s.push(ctx, c); err != nil {
				slog.Error("failed to sync change", "entity", c.Entity, "id", c.ID, "op", c.Op, "error", err)
			}
		}
	}
}

func (s *Syncer) push(ctx context.Context, c ledger.Change) error {
	m, ok := Resolve(s.source.Snapshot(), c, s.userID)
	if !ok {
		return nil
	}

	var err error

	for attempt := range s.opts.MaxAttempts {
		if err = s.pusher.Apply(ctx, m); err == nil {
			return nil
		}

		slog.Warn("sync push failed", "entity", c.Entity, "id", c.ID, "attempt", attempt+1, "error", err)

		if attempt == s.opts.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff(attempt)):
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", s.opts.MaxAttempts, err)
}

func (s *Syncer) backoff(attempt int) time.Duration {
	d := s.opts.BaseDelay << attempt
	if d <= 0 || d > s.opts.MaxDelay {
		return s.opts.MaxDelay
	}

	return d
}

// Restorer replaces local state wholesale.
type Restorer interface {
	Restore(ledger.Document)
}

// Hydrate replaces the local ledger with the remote state of userID.
func Hydrate(ctx context.Context, puller Puller, userID uuid.UUID, dst Restorer) error {
	rows, err := puller.Pull(ctx, userID)
	if err != nil {
		return fmt.Errorf("pulling remote state: %w", err)
	}

	doc, err := rows.Document()
	if err != nil {
		return fmt.Errorf("decoding remote state: %w", err)
	}

	dst.Restore(doc)

	slog.Info("ledger hydrated from remote",
		"transactions", len(doc.Transactions),
		"fixed_expenses", len(doc.FixedExpenses),
		"savings_goals", len(doc.SavingsGoals))

	return nil
}
