package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/prayertimes/internal/notify"
)

// NextMidnight returns the first local midnight strictly after now.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// Midnight notifies its listeners each time the local date changes.
type Midnight struct {
	Logger    *zap.Logger
	Location  *time.Location
	Listeners *notify.Registry

	now func() time.Time
}

func NewMidnight(logger *zap.Logger, loc *time.Location) *Midnight {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Midnight{
		Logger:    logger,
		Location:  loc,
		Listeners: notify.NewRegistry(logger),
		now:       time.Now,
	}
}

// Run sleeps until each midnight and fires the listeners. Stops when ctx is
// cancelled.
func (m *Midnight) Run(ctx context.Context) {
	for {
		now := m.now()
		next := NextMidnight(now, m.Location)
		timer := time.NewTimer(next.Sub(now))
		m.Logger.Debug("midnight_armed", zap.Time("at", next))

		select {
		case <-ctx.Done():
			timer.Stop()
			m.Logger.Info("midnight_stopped")
			return
		case <-timer.C:
			m.Logger.Info("midnight_rollover", zap.Time("at", next))
			m.Listeners.Notify()
		}
	}
}
