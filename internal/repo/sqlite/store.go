package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/hamed0406/prayertimes/internal/domain"
	"github.com/hamed0406/prayertimes/internal/repo"
)

//go:embed schema.sql
var schemaSQL string

var _ repo.PrayerStore = (*Store)(nil)

// Store provides SQLite-backed prayer time persistence.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

type row struct {
	Date      string `db:"date"`
	Midnight  string `db:"midnight"`
	Fajr      string `db:"fajr"`
	Sunrise   string `db:"sunrise"`
	Dhuhr     string `db:"dhuhr"`
	Asr       string `db:"asr"`
	Maghrib   string `db:"maghrib"`
	Isha      string `db:"isha"`
	CreatedAt int64  `db:"created_at"`
}

// Open opens (creating if needed) the database file at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		clean := filepath.Clean(path)
		if dir := filepath.Dir(clean); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		dsn = clean + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and writes serialised.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, date domain.Date) (*domain.PrayerDay, error) {
	const q = `
SELECT date, midnight, fajr, sunrise, dhuhr, asr, maghrib, isha, created_at
  FROM prayer_times
 WHERE date = ?`
	var r row
	if err := s.db.GetContext(ctx, &r, q, date.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prayer times %s: %w", date, err)
	}
	return &domain.PrayerDay{
		Date: date,
		Times: domain.Times{
			domain.Midnight: r.Midnight,
			domain.Fajr:     r.Fajr,
			domain.Sunrise:  r.Sunrise,
			domain.Dhuhr:    r.Dhuhr,
			domain.Asr:      r.Asr,
			domain.Maghrib:  r.Maghrib,
			domain.Isha:     r.Isha,
		}.Complete(),
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
	}, nil
}

func (s *Store) Upsert(ctx context.Context, date domain.Date, times domain.Times) error {
	const q = `
INSERT INTO prayer_times (date, midnight, fajr, sunrise, dhuhr, asr, maghrib, isha, created_at)
VALUES (:date, :midnight, :fajr, :sunrise, :dhuhr, :asr, :maghrib, :isha, :created_at)
ON CONFLICT (date) DO UPDATE SET
  midnight   = excluded.midnight,
  fajr       = excluded.fajr,
  sunrise    = excluded.sunrise,
  dhuhr      = excluded.dhuhr,
  asr        = excluded.asr,
  maghrib    = excluded.maghrib,
  isha       = excluded.isha,
  created_at = excluded.created_at`
	t := times.Complete()
	_, err := s.db.NamedExecContext(ctx, q, row{
		Date:      date.String(),
		Midnight:  t[domain.Midnight],
		Fajr:      t[domain.Fajr],
		Sunrise:   t[domain.Sunrise],
		Dhuhr:     t[domain.Dhuhr],
		Asr:       t[domain.Asr],
		Maghrib:   t[domain.Maghrib],
		Isha:      t[domain.Isha],
		CreatedAt: s.now().UTC().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("upsert prayer times %s: %w", date, err)
	}
	return nil
}
