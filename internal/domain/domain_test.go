package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPlaceholder_HasEveryPrayer(t *testing.T) {
	p := Placeholder()
	if len(p) != len(Prayers) {
		t.Fatalf("want %d entries, got %d", len(Prayers), len(p))
	}
	for _, name := range Prayers {
		if p[name] != Sentinel {
			t.Fatalf("%s: want %q, got %q", name, Sentinel, p[name])
		}
	}
	if !p.IsPlaceholder() {
		t.Fatalf("placeholder row not reported as placeholder")
	}
}

func TestTimes_CompleteFillsAndDrops(t *testing.T) {
	in := Times{Fajr: "05:12", Dhuhr: "13:05", "Imsak": "04:50", Asr: "5pm"}
	got := in.Complete()

	if len(got) != len(Prayers) {
		t.Fatalf("want %d entries, got %d: %v", len(Prayers), len(got), got)
	}
	if got[Fajr] != "05:12" || got[Dhuhr] != "13:05" {
		t.Fatalf("known values lost: %v", got)
	}
	if got[Asr] != Sentinel {
		t.Fatalf("malformed value should become sentinel, got %q", got[Asr])
	}
	if _, ok := got["Imsak"]; ok {
		t.Fatalf("unknown key kept: %v", got)
	}
	if in.IsPlaceholder() {
		t.Fatalf("row with real values reported as placeholder")
	}
}

func TestTimes_Equal(t *testing.T) {
	a := Times{Fajr: "05:12"}
	b := Times{Fajr: "05:12", Isha: Sentinel}
	if !a.Equal(b) {
		t.Fatalf("missing key and sentinel should compare equal")
	}
	c := Times{Fajr: "05:13"}
	if a.Equal(c) {
		t.Fatalf("different values compared equal")
	}
}

func TestTimes_EntriesKeepDisplayOrder(t *testing.T) {
	es := Times{Isha: "21:00", Fajr: "04:00"}.Entries()
	for i, e := range es {
		if e.Prayer != Prayers[i] {
			t.Fatalf("entry %d: want %s, got %s", i, Prayers[i], e.Prayer)
		}
	}
}

func TestPrayerDay_IsFreshBoundary(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"just written", 0, true},
		{"29 days", 29 * 24 * time.Hour, true},
		{"one second short", FreshnessWindow - time.Second, true},
		{"exactly 30 days", FreshnessWindow, false},
		{"31 days", 31 * 24 * time.Hour, false},
	}
	for _, c := range cases {
		d := PrayerDay{CreatedAt: now.Add(-c.age)}
		if got := d.IsFresh(now, FreshnessWindow); got != c.want {
			t.Fatalf("%s: IsFresh=%v want %v", c.name, got, c.want)
		}
	}
}

func TestDate_Formats(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-06-01" {
		t.Fatalf("String=%q", d.String())
	}
	if d.APIString() != "01-06-2024" {
		t.Fatalf("APIString=%q", d.APIString())
	}
	if _, err := ParseDate("01-06-2024"); err == nil {
		t.Fatalf("expected error for non-ISO input")
	}
}

func TestDate_AddDaysCrossesMonthAndYear(t *testing.T) {
	cases := []struct {
		in   Date
		n    int
		want string
	}{
		{Date{2024, time.June, 30}, 1, "2024-07-01"},
		{Date{2024, time.December, 31}, 1, "2025-01-01"},
		{Date{2024, time.February, 28}, 1, "2024-02-29"},
		{Date{2024, time.March, 1}, -1, "2024-02-29"},
	}
	for _, c := range cases {
		if got := c.in.AddDays(c.n).String(); got != c.want {
			t.Fatalf("%s%+d: want %s, got %s", c.in, c.n, c.want, got)
		}
	}
}

func TestDate_JSONUsesISOKey(t *testing.T) {
	b, err := json.Marshal(PrayerDay{Date: Date{2024, time.June, 1}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Date.String() != "2024-06-01" {
		t.Fatalf("round trip lost date: %s (%s)", back.Date, b)
	}
}
