package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hamed0406/prayertimes/internal/domain"
	"github.com/hamed0406/prayertimes/internal/repo"
)

var _ repo.PrayerStore = (*Store)(nil)

const (
	keyPrefix      = "prayer_times:"
	createdAtField = "created_at"
)

// Store keeps each day as a hash: one field per prayer plus created_at
// (unix millis).
type Store struct {
	rdb *redis.Client
	now func() time.Time
}

func New(addr, username, password string) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       0,
	}))
}

func NewWithClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, now: time.Now}
}

func key(date domain.Date) string { return keyPrefix + date.String() }

// EnsureSchema only checks connectivity; hashes need no schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, date domain.Date) (*domain.PrayerDay, error) {
	fields, err := s.rdb.HGetAll(ctx, key(date)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key(date), err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	ms, err := strconv.ParseInt(fields[createdAtField], 10, 64)
	if err != nil {
		// a row without a readable stamp can't be judged fresh
		return nil, nil
	}
	times := make(domain.Times, len(domain.Prayers))
	for _, p := range domain.Prayers {
		if v, ok := fields[string(p)]; ok {
			times[p] = v
		}
	}
	return &domain.PrayerDay{
		Date:      date,
		Times:     times.Complete(),
		CreatedAt: time.UnixMilli(ms).UTC(),
	}, nil
}

func (s *Store) Upsert(ctx context.Context, date domain.Date, times domain.Times) error {
	t := times.Complete()
	values := make(map[string]any, len(t)+1)
	for p, v := range t {
		values[string(p)] = v
	}
	values[createdAtField] = strconv.FormatInt(s.now().UTC().UnixMilli(), 10)

	k := key(date)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, values)
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert %s: %w", k, err)
	}
	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }
