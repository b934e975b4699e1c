// Package redisdb keeps processed event ids in Redis with a TTL.
package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/domain"
)

type Ledger struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

func NewLedger(client *redis.Client, prefix string, retention time.Duration) *Ledger {
	return &Ledger{
		client:    client,
		prefix:    prefix,
		retention: retention,
	}
}

var _ application.EventLedger = (*Ledger)(nil)

// Claim uses SET NX so concurrent replicas agree on a single winner.
func (l *Ledger) Claim(ctx context.Context, id domain.EventID) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(id), time.Now().UTC().Format(time.RFC3339), l.retention).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}

// Prune is a no-op; keys expire on their own after the retention window.
func (l *Ledger) Prune(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (l *Ledger) key(id domain.EventID) string {
	return l.prefix + string(id)
}
