package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/prayertimes/internal/domain"
	"github.com/hamed0406/prayertimes/internal/notify"
)

// TimesReader returns today's prayer times without touching the network.
type TimesReader interface {
	Today(ctx context.Context) domain.Times
}

type AnnouncerConfig struct {
	// Window is how long after a prayer time it may still be announced.
	Window       time.Duration
	PollInterval time.Duration
	Location     *time.Location
}

// Announcer sends one notification per prayer per day when its time arrives.
type Announcer struct {
	log      *zap.Logger
	times    TimesReader
	notifier notify.Notifier
	cfg      AnnouncerConfig
	now      func() time.Time

	day       domain.Date
	announced map[domain.Prayer]bool
}

func NewAnnouncer(log *zap.Logger, times TimesReader, notifier notify.Notifier, cfg AnnouncerConfig) *Announcer {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Announcer{
		log:       log,
		times:     times,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
		announced: map[domain.Prayer]bool{},
	}
}

func (a *Announcer) Run(ctx context.Context) error {
	t := time.NewTicker(a.cfg.PollInterval)
	defer t.Stop()

	// initial pass
	a.scanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			a.scanOnce(ctx)
		}
	}
}

// scanOnce returns how many announcements it sent.
func (a *Announcer) scanOnce(ctx context.Context) int {
	now := a.now().In(a.cfg.Location)
	today := domain.DateOf(now)
	if today != a.day {
		a.day = today
		a.announced = map[domain.Prayer]bool{}
	}

	times := a.times.Today(ctx)
	if times.IsPlaceholder() {
		return 0
	}

	sent := 0
	for _, e := range times.Entries() {
		if a.announced[e.Prayer] {
			continue
		}
		at, err := today.At(e.Time, a.cfg.Location)
		if err != nil {
			continue
		}
		late := now.Sub(at)
		if late < 0 || late >= a.cfg.Window {
			continue
		}

		a.announced[e.Prayer] = true
		ann := notify.Announcement{Prayer: e.Prayer, Time: e.Time, Date: today}

		// Best effort; a failed send is not retried.
		if err := a.notifier.Announce(ctx, ann); err != nil {
			a.log.Warn("announce_send_failed", zap.String("prayer", string(e.Prayer)), zap.Error(err))
			continue
		}
		a.log.Info("announced", zap.String("prayer", string(e.Prayer)), zap.String("time", e.Time))
		sent++
	}
	return sent
}
