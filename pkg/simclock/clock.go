// Package simclock provides the time source consulted by the routing table.
// Expiry is evaluated against whatever the injected Clock reports, so a
// simulation can drive time explicitly with Virtual.
package simclock

import (
    "sync"
    "time"
)

// Clock reports the current (possibly virtual) time.
type Clock interface {
    Now() time.Time
}

// Real is the wall clock.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// Epoch is the default start of virtual time.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Virtual is a manually advanced clock. Time never moves unless Advance or
// Set is called. Safe for use from multiple goroutines.
type Virtual struct {
    mu      sync.RWMutex
    current time.Time
}

// NewVirtual returns a virtual clock starting at start, or at Epoch when
// start is the zero time.
func NewVirtual(start time.Time) *Virtual {
    if start.IsZero() {
        start = Epoch
    }
    return &Virtual{current: start}
}

// Now returns the virtual time.
func (v *Virtual) Now() time.Time {
    v.mu.RLock()
    defer v.mu.RUnlock()
    return v.current
}

// Advance moves time forward by d. Negative durations are ignored; virtual
// time is monotonic.
func (v *Virtual) Advance(d time.Duration) {
    if d <= 0 {
        return
    }
    v.mu.Lock()
    v.current = v.current.Add(d)
    v.mu.Unlock()
}

// Set jumps to t if t is not before the current time.
func (v *Virtual) Set(t time.Time) {
    v.mu.Lock()
    defer v.mu.Unlock()
    if t.After(v.current) {
        v.current = t
    }
}

// Elapsed returns the virtual time passed since s.
func (v *Virtual) Elapsed(s time.Time) time.Duration {
    return v.Now().Sub(s)
}
