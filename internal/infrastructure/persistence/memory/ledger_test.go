package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderovie/integrity/internal/domain"
)

func TestLedger_ClaimOnce(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()

	first, err := l.Claim(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := l.Claim(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, again)

	other, err := l.Claim(ctx, "evt_2")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestLedger_ConcurrentClaims(t *testing.T) {
	l := NewLedger()
	var wins atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Claim(context.Background(), "evt_race"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestLedger_Prune(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	l.now = func() time.Time { return base }
	_, _ = l.Claim(ctx, "evt_old")
	l.now = func() time.Time { return base.Add(48 * time.Hour) }
	_, _ = l.Claim(ctx, "evt_new")

	removed, err := l.Prune(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, l.Len())

	// A pruned id can be claimed again.
	ok, _ := l.Claim(ctx, domain.EventID("evt_old"))
	assert.True(t, ok)
}
