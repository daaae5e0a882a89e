package config

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the TOML layout. Durations are strings such as "15s".
type fileConfig struct {
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
	Log struct {
		Dir   string `toml:"dir"`
		Debug bool   `toml:"debug"`
	} `toml:"log"`
	Store struct {
		Kind          string `toml:"kind"`
		Path          string `toml:"path"`
		DatabaseURL   string `toml:"database_url"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
	} `toml:"store"`
	Prayer struct {
		APIURL          string `toml:"api_url"`
		City            string `toml:"city"`
		Country         string `toml:"country"`
		Method          int    `toml:"method"`
		Timezone        string `toml:"timezone"`
		FetchTimeout    string `toml:"fetch_timeout"`
		PollInterval    string `toml:"poll_interval"`
		FreshnessWindow string `toml:"freshness_window"`
		FetchWorkers    int    `toml:"fetch_workers"`
	} `toml:"prayer"`
	Announce struct {
		Window     string `toml:"window"`
		WebhookURL string `toml:"webhook_url"`
	} `toml:"announce"`
	RateLimit struct {
		RPM   int `toml:"rpm"`
		Burst int `toml:"burst"`
	} `toml:"rate_limit"`
}

// applyFile decodes data over base; keys missing from the file keep their
// base values.
func applyFile(base Config, data []byte) (Config, error) {
	var fc fileConfig
	fc.Server.Addr = base.Addr
	fc.Log.Dir, fc.Log.Debug = base.LogDir, base.LogDebug
	fc.Store.Kind, fc.Store.Path = base.Store, base.DBPath
	fc.Store.DatabaseURL, fc.Store.RedisAddr, fc.Store.RedisPassword = base.DatabaseURL, base.RedisAddr, base.RedisPassword
	fc.Prayer.APIURL, fc.Prayer.City, fc.Prayer.Country = base.APIURL, base.City, base.Country
	fc.Prayer.Method, fc.Prayer.Timezone = base.Method, base.Timezone
	fc.Prayer.FetchTimeout = base.FetchTimeout.String()
	fc.Prayer.PollInterval = base.PollInterval.String()
	fc.Prayer.FreshnessWindow = base.FreshnessWindow.String()
	fc.Prayer.FetchWorkers = base.FetchWorkers
	fc.Announce.Window, fc.Announce.WebhookURL = base.AnnounceWindow.String(), base.WebhookURL
	fc.RateLimit.RPM, fc.RateLimit.Burst = base.PublicRPM, base.PublicBurst

	if err := toml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	out := base
	out.Addr = fc.Server.Addr
	out.LogDir, out.LogDebug = fc.Log.Dir, fc.Log.Debug
	out.Store, out.DBPath = fc.Store.Kind, fc.Store.Path
	out.DatabaseURL, out.RedisAddr, out.RedisPassword = fc.Store.DatabaseURL, fc.Store.RedisAddr, fc.Store.RedisPassword
	out.APIURL, out.City, out.Country = fc.Prayer.APIURL, fc.Prayer.City, fc.Prayer.Country
	out.Method, out.Timezone = fc.Prayer.Method, fc.Prayer.Timezone
	out.FetchWorkers = fc.Prayer.FetchWorkers
	out.WebhookURL = fc.Announce.WebhookURL
	out.PublicRPM, out.PublicBurst = fc.RateLimit.RPM, fc.RateLimit.Burst

	var err error
	for _, d := range []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"prayer.fetch_timeout", fc.Prayer.FetchTimeout, &out.FetchTimeout},
		{"prayer.poll_interval", fc.Prayer.PollInterval, &out.PollInterval},
		{"prayer.freshness_window", fc.Prayer.FreshnessWindow, &out.FreshnessWindow},
		{"announce.window", fc.Announce.Window, &out.AnnounceWindow},
	} {
		if *d.dst, err = time.ParseDuration(d.raw); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", d.key, err)
		}
	}
	return out, nil
}
