package domain

import (
	"fmt"
	"sort"
	"time"
)

// Upcoming describes the next prayer relative to a point in time.
type Upcoming struct {
	Prayer Prayer        `json:"name"`
	Time   string        `json:"time"`
	At     time.Time     `json:"at"`
	In     time.Duration `json:"-"`
}

// Remaining renders the wait as "HH:MM", rounding seconds down.
func (u Upcoming) Remaining() string {
	m := int(u.In / time.Minute)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// NextPrayer finds the first prayer strictly after now's time of day. When
// every prayer has passed it wraps to the earliest one tomorrow, assuming the
// same clock values. A placeholder row has no next prayer; in any other row
// "00:00" is a real time.
func NextPrayer(now time.Time, times Times) (Upcoming, bool) {
	if times.IsPlaceholder() {
		return Upcoming{}, false
	}
	today := DateOf(now)
	loc := now.Location()

	type slot struct {
		p  Prayer
		hm string
		at time.Time
	}
	slots := make([]slot, 0, len(Prayers))
	for _, e := range times.Entries() {
		at, err := today.At(e.Time, loc)
		if err != nil {
			continue
		}
		slots = append(slots, slot{p: e.Prayer, hm: e.Time, at: at})
	}
	if len(slots) == 0 {
		return Upcoming{}, false
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].at.Before(slots[j].at) })

	for _, s := range slots {
		if s.at.After(now) {
			return Upcoming{Prayer: s.p, Time: s.hm, At: s.at, In: s.at.Sub(now)}, true
		}
	}
	first := slots[0]
	at := first.at.AddDate(0, 0, 1)
	return Upcoming{Prayer: first.p, Time: first.hm, At: at, In: at.Sub(now)}, true
}
