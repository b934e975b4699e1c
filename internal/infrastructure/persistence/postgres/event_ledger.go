package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/domain"
)

type eventLedger struct {
	db *DB
}

func NewEventLedger(db *DB) application.EventLedger {
	return &eventLedger{db: db}
}

// Claim relies on the primary key: the row is inserted by exactly one caller.
func (r *eventLedger) Claim(ctx context.Context, id domain.EventID) (bool, error) {
	query := `
		INSERT INTO processed_events (event_id, processed_at)
		VALUES ($1, $2)
		ON CONFLICT (event_id) DO NOTHING
	`

	tag, err := r.db.Pool.Exec(ctx, query, string(id), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to claim event: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *eventLedger) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	query := `DELETE FROM processed_events WHERE processed_at < $1`

	tag, err := r.db.Pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune processed events: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
