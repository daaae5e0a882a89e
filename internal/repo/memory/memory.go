package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/prayertimes/internal/domain"
	"github.com/hamed0406/prayertimes/internal/repo"
)

var _ repo.PrayerStore = (*Store)(nil)

type Store struct {
	mu   sync.RWMutex
	days map[domain.Date]domain.PrayerDay

	// Now stamps CreatedAt; defaults to time.Now.
	Now func() time.Time
}

func New() *Store {
	return &Store{
		days: make(map[domain.Date]domain.PrayerDay),
		Now:  time.Now,
	}
}

func (m *Store) EnsureSchema(ctx context.Context) error { return nil }

func (m *Store) Get(ctx context.Context, date domain.Date) (*domain.PrayerDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.days[date]
	if !ok {
		return nil, nil
	}
	d.Times = d.Times.Complete() // copy; callers must not share our map
	return &d, nil
}

func (m *Store) Upsert(ctx context.Context, date domain.Date, times domain.Times) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := domain.PrayerDay{
		Date:      date,
		Times:     times.Complete(),
		CreatedAt: m.Now().UTC(),
	}
	m.mu.Lock()
	m.days[date] = row
	m.mu.Unlock()
	return nil
}

func (m *Store) Close() error { return nil }

// Len reports how many days are stored.
func (m *Store) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.days)
}
