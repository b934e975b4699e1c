// Package boltdb stores processed event ids in an embedded BoltDB file.
package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/domain"
)

const bucketName = "processed_events"

type Ledger struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens (or creates) the ledger file and ensures the bucket exists.
func Open(path string) (*Ledger, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt ledger: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger bucket: %w", err)
	}

	return &Ledger{db: db, now: time.Now}, nil
}

var _ application.EventLedger = (*Ledger)(nil)

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Claim writes the id in a single read-write transaction, so only one caller wins.
func (l *Ledger) Claim(_ context.Context, id domain.EventID) (bool, error) {
	claimed := false

	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b.Get([]byte(id)) != nil {
			return nil
		}
		claimed = true
		return b.Put([]byte(id), encodeTime(l.now()))
	})
	if err != nil {
		return false, fmt.Errorf("claim event %s: %w", id, err)
	}

	return claimed, nil
}

func (l *Ledger) Prune(_ context.Context, cutoff time.Time) (int, error) {
	removed := 0

	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if decodeTime(v).Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune ledger: %w", err)
	}

	return removed, nil
}

func encodeTime(t time.Time) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))
	return buf
}

func decodeTime(b []byte) time.Time {
	if len(b) != 8 {
		return time.Time{}
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(b)))
}
