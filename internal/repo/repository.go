package repo

import (
	"context"

	"github.com/hamed0406/prayertimes/internal/domain"
)

// PrayerStore keeps one row of prayer times per calendar date. Swap in any
// adapter; every one of them replaces the full row on Upsert.
type PrayerStore interface {
	// EnsureSchema creates the backing table or keyspace if missing.
	EnsureSchema(ctx context.Context) error
	// Get returns nil, nil if there's no record for date.
	Get(ctx context.Context, date domain.Date) (*domain.PrayerDay, error)
	// Upsert replaces the row for date and stamps CreatedAt with the current time.
	Upsert(ctx context.Context, date domain.Date, times domain.Times) error
	Close() error
}
