package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hamed0406/prayertimes/internal/domain"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "prayer.db"))
	got, err := s.Get(context.Background(), domain.Date{Year: 2024, Month: time.June, Day: 1})
	if err != nil || got != nil {
		t.Fatalf("want nil, nil; got %+v, %v", got, err)
	}
}

func TestStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "prayer.db"))
	stamp := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return stamp }
	d := domain.Date{Year: 2024, Month: time.June, Day: 1}

	in := domain.Times{domain.Fajr: "05:12", domain.Dhuhr: "13:05"}
	if err := s.Upsert(ctx, d, in); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := s.Get(ctx, d)
	if err != nil || got == nil {
		t.Fatalf("Get: %+v, %v", got, err)
	}
	if got.Times[domain.Fajr] != "05:12" || got.Times[domain.Dhuhr] != "13:05" {
		t.Fatalf("unexpected times: %v", got.Times)
	}
	if got.Times[domain.Isha] != domain.Sentinel {
		t.Fatalf("missing value should be stored as sentinel, got %q", got.Times[domain.Isha])
	}
	if !got.CreatedAt.Equal(stamp) {
		t.Fatalf("CreatedAt=%s want %s", got.CreatedAt, stamp)
	}
	if got.Date != d {
		t.Fatalf("Date=%s want %s", got.Date, d)
	}
}

func TestStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "prayer.db"))
	d := domain.Date{Year: 2024, Month: time.June, Day: 1}

	_ = s.Upsert(ctx, d, domain.Times{domain.Fajr: "05:12", domain.Asr: "17:10"})
	if err := s.Upsert(ctx, d, domain.Times{domain.Fajr: "05:11"}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	got, _ := s.Get(ctx, d)
	if got.Times[domain.Fajr] != "05:11" || got.Times[domain.Asr] != domain.Sentinel {
		t.Fatalf("row not fully replaced: %v", got.Times)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prayer.db")
	d := domain.Date{Year: 2024, Month: time.June, Day: 2}

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Upsert(ctx, d, domain.Times{domain.Maghrib: "20:35"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := openTestStore(t, path)
	if err := second.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema twice: %v", err)
	}
	got, err := second.Get(ctx, d)
	if err != nil || got == nil || got.Times[domain.Maghrib] != "20:35" {
		t.Fatalf("row lost after reopen: %+v, %v", got, err)
	}
}

func TestStore_InMemory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, ":memory:")
	d := domain.Date{Year: 2024, Month: time.June, Day: 3}
	if err := s.Upsert(ctx, d, domain.Times{domain.Isha: "22:20"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got, _ := s.Get(ctx, d); got == nil {
		t.Fatalf("in-memory row not visible")
	}
}
