package prayer

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/prayertimes/internal/domain"
)

// UpdatePrayerTimes runs Refresh in the background. The channel yields one
// result and is closed.
func (c *Cache) UpdatePrayerTimes() <-chan UpdateResult {
	out := make(chan UpdateResult, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		out <- UpdateResult{Skipped: true}
		close(out)
		return out
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer close(out)
		out <- c.Refresh(c.life)
	}()
	return out
}

// Refresh fetches today and tomorrow, writes rows that changed and notifies
// listeners once if anything was written. Only one sequence runs at a time;
// a concurrent call returns Skipped.
func (c *Cache) Refresh(ctx context.Context) UpdateResult {
	if !c.fetching.CompareAndSwap(false, true) {
		c.log.Debug("prayer_update_skipped")
		return UpdateResult{Skipped: true}
	}
	defer c.fetching.Store(false)

	today := c.today()
	dates := []domain.Date{today, today.AddDays(1)}
	fetched := c.fetchAll(ctx, dates)

	var res UpdateResult
	for i, d := range dates {
		if fetched[i] == nil {
			res.Failed = append(res.Failed, d)
			continue
		}
		written, err := c.writeIfChanged(ctx, d, fetched[i])
		if err != nil {
			res.Failed = append(res.Failed, d)
			continue
		}
		if written {
			res.Written = append(res.Written, d)
		}
	}

	if len(res.Written) > 0 {
		c.dispatch.Dispatch(c.listeners.Notify)
	}

	if day := c.Lookup(ctx, today); day != nil && !day.Times.IsPlaceholder() {
		res.TodayReady = true
		c.StopAutoUpdate()
	}

	c.log.Info("prayer_update_done",
		zap.Int("written", len(res.Written)),
		zap.Int("failed", len(res.Failed)),
		zap.Bool("today_ready", res.TodayReady),
	)
	return res
}

// fetchAll returns one entry per date; failed fetches are nil.
func (c *Cache) fetchAll(ctx context.Context, dates []domain.Date) []domain.Times {
	out := make([]domain.Times, len(dates))

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i, d := range dates {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
			defer cancel()

			t, err := c.source.Fetch(fctx, d)
			if err != nil {
				c.log.Warn("prayer_fetch_failed", zap.Stringer("date", d), zap.Error(err))
				return nil
			}
			if t.IsPlaceholder() {
				c.log.Warn("prayer_fetch_empty", zap.Stringer("date", d))
				return nil
			}
			out[i] = t
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Cache) writeIfChanged(ctx context.Context, d domain.Date, t domain.Times) (bool, error) {
	row := t.Complete()
	if cur := c.get(ctx, d); cur != nil &&
		cur.IsFresh(c.opts.Now(), c.opts.MaxAge) &&
		cur.Times.Equal(row) {
		return false, nil
	}
	if err := c.store.Upsert(ctx, d, row); err != nil {
		c.log.Error("prayer_row_write_failed", zap.Stringer("date", d), zap.Error(err))
		return false, err
	}
	c.log.Info("prayer_row_written", zap.Stringer("date", d))
	return true, nil
}
