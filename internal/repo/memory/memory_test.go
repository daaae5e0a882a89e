package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hamed0406/prayertimes/internal/domain"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	s := New()
	got, err := s.Get(context.Background(), domain.Date{Year: 2024, Month: time.June, Day: 1})
	if err != nil || got != nil {
		t.Fatalf("want nil, nil; got %+v, %v", got, err)
	}
}

func TestMemoryStore_UpsertReplacesFullRow(t *testing.T) {
	ctx := context.Background()
	s := New()
	stamp := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return stamp }
	d := domain.Date{Year: 2024, Month: time.June, Day: 1}

	if err := s.Upsert(ctx, d, domain.Times{domain.Fajr: "03:35", domain.Isha: "22:20"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	stamp = stamp.Add(time.Hour)
	if err := s.Upsert(ctx, d, domain.Times{domain.Fajr: "03:36"}); err != nil {
		t.Fatalf("Upsert 2: %v", err)
	}

	got, err := s.Get(ctx, d)
	if err != nil || got == nil {
		t.Fatalf("Get: %+v, %v", got, err)
	}
	if got.Times[domain.Fajr] != "03:36" {
		t.Fatalf("Fajr not replaced: %v", got.Times)
	}
	if got.Times[domain.Isha] != domain.Sentinel {
		t.Fatalf("Isha should be reset by the full-row write, got %q", got.Times[domain.Isha])
	}
	if len(got.Times) != len(domain.Prayers) {
		t.Fatalf("want complete row, got %v", got.Times)
	}
	if !got.CreatedAt.Equal(stamp) {
		t.Fatalf("CreatedAt=%s want %s", got.CreatedAt, stamp)
	}
	if s.Len() != 1 {
		t.Fatalf("want 1 stored day, got %d", s.Len())
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	d := domain.Date{Year: 2024, Month: time.June, Day: 1}
	_ = s.Upsert(ctx, d, domain.Times{domain.Fajr: "03:35"})

	got, _ := s.Get(ctx, d)
	got.Times[domain.Fajr] = "09:99"

	again, _ := s.Get(ctx, d)
	if again.Times[domain.Fajr] != "03:35" {
		t.Fatalf("stored row mutated through a returned copy: %v", again.Times)
	}
}
