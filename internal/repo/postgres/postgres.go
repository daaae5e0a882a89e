package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/prayertimes/internal/domain"
	"github.com/hamed0406/prayertimes/internal/repo"
)

var _ repo.PrayerStore = (*Store)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS prayer_times (
  date       TEXT PRIMARY KEY,
  midnight   TEXT NOT NULL DEFAULT '00:00',
  fajr       TEXT NOT NULL DEFAULT '00:00',
  sunrise    TEXT NOT NULL DEFAULT '00:00',
  dhuhr      TEXT NOT NULL DEFAULT '00:00',
  asr        TEXT NOT NULL DEFAULT '00:00',
  maghrib    TEXT NOT NULL DEFAULT '00:00',
  isha       TEXT NOT NULL DEFAULT '00:00',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
	now  func() time.Time
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, date domain.Date) (*domain.PrayerDay, error) {
	const q = `
SELECT midnight, fajr, sunrise, dhuhr, asr, maghrib, isha, created_at
  FROM prayer_times
 WHERE date = $1`
	var (
		vals      [7]string
		createdAt time.Time
	)
	err := s.pool.QueryRow(ctx, q, date.String()).Scan(
		&vals[0], &vals[1], &vals[2], &vals[3], &vals[4], &vals[5], &vals[6], &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prayer times %s: %w", date, err)
	}
	times := make(domain.Times, len(domain.Prayers))
	for i, p := range domain.Prayers {
		times[p] = vals[i]
	}
	return &domain.PrayerDay{
		Date:      date,
		Times:     times.Complete(),
		CreatedAt: createdAt.UTC(),
	}, nil
}

func (s *Store) Upsert(ctx context.Context, date domain.Date, times domain.Times) error {
	const q = `
INSERT INTO prayer_times (date, midnight, fajr, sunrise, dhuhr, asr, maghrib, isha, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (date)
DO UPDATE SET midnight=EXCLUDED.midnight, fajr=EXCLUDED.fajr, sunrise=EXCLUDED.sunrise,
              dhuhr=EXCLUDED.dhuhr, asr=EXCLUDED.asr, maghrib=EXCLUDED.maghrib,
              isha=EXCLUDED.isha, created_at=EXCLUDED.created_at`
	t := times.Complete()
	_, err := s.pool.Exec(ctx, q,
		date.String(),
		t[domain.Midnight], t[domain.Fajr], t[domain.Sunrise], t[domain.Dhuhr],
		t[domain.Asr], t[domain.Maghrib], t[domain.Isha],
		s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert prayer times %s: %w", date, err)
	}
	s.log.Debug("pg_prayer_times_upserted", zap.String("date", date.String()))
	return nil
}
