// Package prayer keeps today's and tomorrow's prayer times in a persistent
// store and refreshes them from a remote source in the background.
package prayer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/prayertimes/internal/domain"
	"github.com/hamed0406/prayertimes/internal/notify"
	"github.com/hamed0406/prayertimes/internal/repo"
	"github.com/hamed0406/prayertimes/internal/timings"
)

type Options struct {
	PollInterval time.Duration
	FetchTimeout time.Duration
	MaxAge       time.Duration
	Workers      int
	Location     *time.Location
	Now          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 15 * time.Second
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = timings.DefaultTimeout
	}
	if o.MaxAge <= 0 {
		o.MaxAge = domain.FreshnessWindow
	}
	if o.Workers <= 0 {
		o.Workers = 2
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// UpdateResult summarises one update sequence.
type UpdateResult struct {
	Written    []domain.Date
	Failed     []domain.Date
	Skipped    bool
	TodayReady bool
}

type Cache struct {
	log       *zap.Logger
	store     repo.PrayerStore
	source    timings.Source
	listeners *notify.Registry
	dispatch  notify.Dispatcher
	opts      Options

	fetching atomic.Bool
	wg       sync.WaitGroup

	mu         sync.Mutex
	pollCancel context.CancelFunc
	closed     bool

	life   context.Context
	cancel context.CancelFunc
}

// New builds a cache. Call Start to run the initial load.
func New(log *zap.Logger, store repo.PrayerStore, source timings.Source, dispatch notify.Dispatcher, opts Options) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	if dispatch == nil {
		dispatch = notify.Inline{}
	}
	life, cancel := context.WithCancel(context.Background())
	return &Cache{
		log:       log,
		store:     store,
		source:    source,
		listeners: notify.NewRegistry(log),
		dispatch:  dispatch,
		opts:      opts.withDefaults(),
		life:      life,
		cancel:    cancel,
	}
}

// Start prepares the store and loads today and tomorrow. If today is still
// unknown afterwards the poll loop is armed; otherwise listeners hear about
// the loaded data exactly once.
func (c *Cache) Start(ctx context.Context) UpdateResult {
	if err := c.store.EnsureSchema(ctx); err != nil {
		c.log.Error("prayer_schema_failed", zap.Error(err))
	}
	res := c.Refresh(ctx)
	if !res.TodayReady {
		c.StartAutoUpdate()
		return res
	}
	if len(res.Written) == 0 {
		c.dispatch.Dispatch(c.listeners.Notify)
	}
	return res
}

func (c *Cache) today() domain.Date {
	return domain.DateOf(c.opts.Now().In(c.opts.Location))
}

// Today is PrayerTimes for the current local date.
func (c *Cache) Today(ctx context.Context) domain.Times {
	return c.PrayerTimes(ctx, c.today())
}

// PrayerTimes reads date from the store only. A missing or stale row yields
// the placeholder; for today or tomorrow it also arms the poll loop.
func (c *Cache) PrayerTimes(ctx context.Context, date domain.Date) domain.Times {
	day := c.Lookup(ctx, date)
	if day != nil {
		return day.Times.Complete()
	}
	today := c.today()
	if date == today || date == today.AddDays(1) {
		c.StartAutoUpdate()
	}
	return domain.Placeholder()
}

// Lookup returns the fresh stored record for date, or nil.
func (c *Cache) Lookup(ctx context.Context, date domain.Date) *domain.PrayerDay {
	day := c.get(ctx, date)
	if day == nil || !day.IsFresh(c.opts.Now(), c.opts.MaxAge) {
		return nil
	}
	return day
}

func (c *Cache) get(ctx context.Context, date domain.Date) *domain.PrayerDay {
	day, err := c.store.Get(ctx, date)
	if err != nil {
		c.log.Warn("prayer_store_read_failed", zap.Stringer("date", date), zap.Error(err))
		return nil
	}
	return day
}

func (c *Cache) AddUpdateListener(l notify.Listener) bool {
	return c.listeners.Add(l)
}

func (c *Cache) RemoveUpdateListener(l notify.Listener) bool {
	return c.listeners.Remove(l)
}

// Polling reports whether the poll loop is armed.
func (c *Cache) Polling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pollCancel != nil
}

// Fetching reports whether an update sequence is running.
func (c *Cache) Fetching() bool {
	return c.fetching.Load()
}

// Close stops polling, cancels running updates and waits for them, then
// closes the store.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return c.store.Close()
}
