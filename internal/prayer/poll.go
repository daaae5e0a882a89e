package prayer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartAutoUpdate arms the poll loop. It is a no-op while the loop runs or
// after Close.
func (c *Cache) StartAutoUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.pollCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(c.life)
	c.pollCancel = cancel
	c.wg.Add(1)
	go c.poll(ctx)
	c.log.Info("prayer_poll_started", zap.Duration("interval", c.opts.PollInterval))
}

// StopAutoUpdate disarms the poll loop. An update already running is left to
// finish and its result is still written.
func (c *Cache) StopAutoUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pollCancel == nil {
		return
	}
	c.pollCancel()
	c.pollCancel = nil
	c.log.Info("prayer_poll_stopped")
}

func (c *Cache) poll(ctx context.Context) {
	defer c.wg.Done()
	t := time.NewTicker(c.opts.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ctx.Err() != nil {
				return
			}
			c.UpdatePrayerTimes()
		}
	}
}
