package notify

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Listener is told that stored prayer times changed. It should re-read what
// it displays.
type Listener interface {
	PrayerTimesUpdated()
}

type funcListener struct{ fn func() }

func (f *funcListener) PrayerTimesUpdated() { f.fn() }

// Func wraps fn into a Listener. Keep the returned value to remove it later;
// every call produces a distinct handle.
func Func(fn func()) Listener {
	return &funcListener{fn: fn}
}

// Registry is an ordered set of listeners. Listeners are compared by value,
// so a listener type that is not comparable (a struct holding a slice or map)
// is refused; register a pointer to it instead.
type Registry struct {
	log *zap.Logger

	mu        sync.RWMutex
	listeners []Listener
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log}
}

// Add registers l. It reports false if l was already present.
func (r *Registry) Add(l Listener) bool {
	if !r.checkComparable(l) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.listeners {
		if x == l {
			return false
		}
	}
	r.listeners = append(r.listeners, l)
	return true
}

// Remove unregisters l. It reports false if l was not present.
func (r *Registry) Remove(l Listener) bool {
	if !r.checkComparable(l) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.listeners {
		if x == l {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) checkComparable(l Listener) bool {
	if l == nil {
		return false
	}
	if !reflect.TypeOf(l).Comparable() {
		r.log.Warn("listener_not_comparable", zap.String("listener", fmt.Sprintf("%T", l)))
		return false
	}
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

// Notify calls every listener in registration order. A panicking listener is
// logged and skipped; the rest still run.
func (r *Registry) Notify() {
	r.mu.RLock()
	snapshot := make([]Listener, len(r.listeners))
	copy(snapshot, r.listeners)
	r.mu.RUnlock()

	for _, l := range snapshot {
		r.call(l)
	}
}

func (r *Registry) call(l Listener) {
	defer func() {
		if v := recover(); v != nil {
			r.log.Error("listener_panic",
				zap.String("listener", fmt.Sprintf("%T", l)),
				zap.Any("panic", v),
			)
		}
	}()
	l.PrayerTimesUpdated()
}
