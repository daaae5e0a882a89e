package notify

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/prayertimes/internal/domain"
)

// Announcement says that a prayer's time has arrived.
type Announcement struct {
	Prayer domain.Prayer
	Time   string // "HH:MM"
	Date   domain.Date
}

func (a Announcement) Title() string {
	return fmt.Sprintf("%s time", a.Prayer)
}

func (a Announcement) Text() string {
	return fmt.Sprintf("%s started at %s on %s", a.Prayer, a.Time, a.Date)
}

// Notifier delivers announcements somewhere outside the process.
type Notifier interface {
	Announce(ctx context.Context, a Announcement) error
}

// Multi announces through every notifier and reports all failures.
type Multi []Notifier

func (m Multi) Announce(ctx context.Context, a Announcement) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Announce(ctx, a))
	}
	return err
}

// LogNotifier writes announcements to the application log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Announce(ctx context.Context, a Announcement) error {
	l.Logger.Info("prayer_announcement",
		zap.String("prayer", string(a.Prayer)),
		zap.String("time", a.Time),
		zap.Stringer("date", a.Date),
	)
	return nil
}
