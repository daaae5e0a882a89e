package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/prayertimes/internal/config"
	"github.com/hamed0406/prayertimes/internal/httpapi"
	"github.com/hamed0406/prayertimes/internal/logging"
	"github.com/hamed0406/prayertimes/internal/notify"
	"github.com/hamed0406/prayertimes/internal/prayer"
	"github.com/hamed0406/prayertimes/internal/scheduler"
	"github.com/hamed0406/prayertimes/internal/timings"
)

func main() {
	configPath := flag.String("config", os.Getenv("PRAYERTIMES_CONFIG"), "optional TOML config file")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogDebug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("api_exit", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	notifiers := notify.Multi{notify.LogNotifier{Logger: logger}}
	if cfg.WebhookURL != "" {
		wh, err := notify.NewWebhook(cfg.WebhookURL, 0)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, wh)
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	source := timings.NewHTTPSource(timings.Options{
		BaseURL: cfg.APIURL,
		City:    cfg.City,
		Country: cfg.Country,
		Method:  cfg.Method,
		Timeout: cfg.FetchTimeout,
	})

	// listeners run one at a time on this loop
	mainLoop := notify.NewLoop(16)
	defer mainLoop.Close()

	cache := prayer.New(logger, store, source, mainLoop, prayer.Options{
		PollInterval: cfg.PollInterval,
		FetchTimeout: cfg.FetchTimeout,
		MaxAge:       cfg.FreshnessWindow,
		Workers:      cfg.FetchWorkers,
		Location:     loc,
	})
	cache.AddUpdateListener(notify.Func(func() {
		t := cache.Today(context.Background())
		logger.Info("prayer_times_updated", zap.Any("today", t.Entries()))
	}))

	res := cache.Start(ctx)
	logger.Info("prayer_cache_started",
		zap.Int("written", len(res.Written)),
		zap.Bool("today_ready", res.TodayReady),
		zap.Bool("polling", cache.Polling()),
	)

	midnight := scheduler.NewMidnight(logger, loc)
	midnight.Listeners.Add(notify.Func(func() { cache.UpdatePrayerTimes() }))
	go midnight.Run(ctx)

	announcer := scheduler.NewAnnouncer(logger, cache, notifiers, scheduler.AnnouncerConfig{
		Window:   cfg.AnnounceWindow,
		Location: loc,
	})
	go func() { _ = announcer.Run(ctx) }()

	api := httpapi.NewServer(logger, cache, loc)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(cfg.PublicRPM, cfg.PublicBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("api_shutdown")
	case serveErr = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return multierr.Combine(
		serveErr,
		srv.Shutdown(shutdownCtx),
		cache.Close(),
	)
}
