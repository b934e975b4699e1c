// Package memory holds the in-process event ledger. Entries are lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/domain"
)

type Ledger struct {
	mu      sync.Mutex
	entries map[domain.EventID]time.Time
	now     func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[domain.EventID]time.Time),
		now:     time.Now,
	}
}

var _ application.EventLedger = (*Ledger)(nil)

func (l *Ledger) Claim(_ context.Context, id domain.EventID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[id]; ok {
		return false, nil
	}
	l.entries[id] = l.now()
	return true, nil
}

func (l *Ledger) Prune(_ context.Context, cutoff time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, at := range l.entries {
		if at.Before(cutoff) {
			delete(l.entries, id)
			removed++
		}
	}
	return removed, nil
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
