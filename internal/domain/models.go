package domain

import (
	"time"
)

type Prayer string

const (
	Midnight Prayer = "Midnight"
	Fajr     Prayer = "Fajr"
	Sunrise  Prayer = "Sunrise"
	Dhuhr    Prayer = "Dhuhr"
	Asr      Prayer = "Asr"
	Maghrib  Prayer = "Maghrib"
	Isha     Prayer = "Isha"
)

// Prayers lists the known prayer names in display order.
var Prayers = []Prayer{Midnight, Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// Sentinel is rendered for any prayer whose time is unknown.
const Sentinel = "00:00"

// FreshnessWindow is how long a stored day is trusted.
const FreshnessWindow = 30 * 24 * time.Hour

func (p Prayer) Known() bool {
	for _, k := range Prayers {
		if k == p {
			return true
		}
	}
	return false
}

// Times maps a prayer name to a 24-hour "HH:MM" time of day.
type Times map[Prayer]string

type Entry struct {
	Prayer Prayer `json:"name"`
	Time   string `json:"time"`
}

// Placeholder returns a row where every prayer holds the sentinel.
func Placeholder() Times {
	out := make(Times, len(Prayers))
	for _, p := range Prayers {
		out[p] = Sentinel
	}
	return out
}

// Complete returns a copy holding exactly the known prayers. Missing or
// malformed values become the sentinel; unknown keys are dropped.
func (t Times) Complete() Times {
	out := make(Times, len(Prayers))
	for _, p := range Prayers {
		v, ok := t[p]
		if !ok || !ValidClock(v) {
			v = Sentinel
		}
		out[p] = v
	}
	return out
}

func (t Times) Equal(o Times) bool {
	a, b := t.Complete(), o.Complete()
	for _, p := range Prayers {
		if a[p] != b[p] {
			return false
		}
	}
	return true
}

// IsPlaceholder reports whether no prayer carries a real value.
func (t Times) IsPlaceholder() bool {
	for _, p := range Prayers {
		if v, ok := t[p]; ok && v != Sentinel && ValidClock(v) {
			return false
		}
	}
	return true
}

func (t Times) Entries() []Entry {
	c := t.Complete()
	out := make([]Entry, 0, len(Prayers))
	for _, p := range Prayers {
		out = append(out, Entry{Prayer: p, Time: c[p]})
	}
	return out
}

// ValidClock reports whether s is a 24-hour "HH:MM" string.
func ValidClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// PrayerDay is one stored calendar day.
type PrayerDay struct {
	Date      Date      `json:"date"`
	Times     Times     `json:"times"`
	CreatedAt time.Time `json:"created_at"`
}

// IsFresh is true while the record is younger than maxAge. A record exactly
// maxAge old is stale.
func (d PrayerDay) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(d.CreatedAt) < maxAge
}
