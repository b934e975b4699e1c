package persistence_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderovie/integrity/internal/config"
	"github.com/alexanderovie/integrity/internal/infrastructure/persistence"
)

func TestOpenLedger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mr := miniredis.RunT(t)

	tests := map[string]*config.Config{
		"memory": {Ledger: config.LedgerConfig{Backend: "memory"}},
		"bolt":   {Ledger: config.LedgerConfig{Backend: "bolt", BoltPath: filepath.Join(t.TempDir(), "l.db")}},
		"redis": {
			Ledger: config.LedgerConfig{Backend: "redis", Retention: time.Hour},
			Redis:  config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "t:"},
		},
	}

	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			ledger, release, err := persistence.OpenLedger(context.Background(), cfg, logger)
			require.NoError(t, err)
			defer release()

			ok, err := ledger.Claim(context.Background(), "evt_1")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = ledger.Claim(context.Background(), "evt_1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestOpenLedger_UnknownBackend(t *testing.T) {
	_, _, err := persistence.OpenLedger(context.Background(),
		&config.Config{Ledger: config.LedgerConfig{Backend: "sqlite"}}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
