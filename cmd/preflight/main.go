// cmd/preflight/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/hamed0406/prayertimes/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	path := flag.String("config", os.Getenv("PRAYERTIMES_CONFIG"), "optional TOML config file")
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load(*path)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "✖", e)
		}
		fail("configuration invalid")
	}

	ok("API_ADDR=" + cfg.Addr)
	ok("STORE=" + cfg.Store)
	switch cfg.Store {
	case config.StoreMemory:
		warn("STORE=memory: prayer times are lost on restart and refetched on start.")
	case config.StoreSQLite:
		ok("DB_PATH=" + cfg.DBPath)
	}
	ok(fmt.Sprintf("source %s city=%s country=%s method=%d", cfg.APIURL, cfg.City, cfg.Country, cfg.Method))

	if cfg.Timezone == "" {
		warn("PRAYER_TIMEZONE empty; the host's local zone decides when a day starts.")
	} else {
		ok("PRAYER_TIMEZONE=" + cfg.Timezone)
	}
	if cfg.PollInterval < cfg.FetchTimeout {
		warn("POLL_INTERVAL is shorter than FETCH_TIMEOUT; ticks will be skipped while a fetch runs.")
	}
	if cfg.WebhookURL == "" {
		warn("WEBHOOK_URL empty; announcements go to the log only.")
	}
	if cfg.PublicRPM <= 0 {
		warn("PUBLIC_RPM <= 0; rate limiting disabled.")
	}

	ok("preflight passed")
}
