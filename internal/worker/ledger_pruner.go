// Package worker runs background maintenance loops.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderovie/integrity/internal/application"
)

// LedgerPruner deletes event ledger entries older than the retention window.
type LedgerPruner struct {
	ledger    application.EventLedger
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewLedgerPruner(
	ledger application.EventLedger,
	interval time.Duration,
	retention time.Duration,
	logger *slog.Logger,
) *LedgerPruner {
	return &LedgerPruner{
		ledger:    ledger,
		interval:  interval,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Start prunes once immediately, then on every tick until ctx is cancelled.
func (w *LedgerPruner) Start(ctx context.Context) {
	w.logger.Info("ledger pruner started", "interval", w.interval, "retention", w.retention)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("ledger pruner stopping")
			return
		case <-ticker.C:
			w.prune(ctx)
		}
	}
}

func (w *LedgerPruner) prune(ctx context.Context) {
	cutoff := w.now().Add(-w.retention)

	removed, err := w.ledger.Prune(ctx, cutoff)
	if err != nil {
		w.logger.Error("ledger prune failed", "error", err)
		return
	}

	if removed > 0 {
		w.logger.Info("pruned event ledger", "removed", removed, "cutoff", cutoff)
	}
}
