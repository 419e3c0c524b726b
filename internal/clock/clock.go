// Package clock abstracts the wall clock so that hold expiry, which is a
// wall-clock predicate rather than a process timer, stays deterministic in
// tests.
package clock

import (
    "sync"
    "time"
)

// Clock supplies the current time.  Production code uses Real; tests use
// Fake and move time by hand.
type Clock interface {
    Now() time.Time
}

// Real reads the system clock.  All times in the application are UTC.
type Real struct{}

// Now returns the current UTC time.
func (Real) Now() time.Time { return time.Now().UTC() }

// Fake is a manually advanced clock for tests.
type Fake struct {
    mu sync.Mutex
    t  time.Time
}

// NewFake returns a Fake frozen at t.
func NewFake(t time.Time) *Fake { return &Fake{t: t} }

// Now returns the frozen time.
func (f *Fake) Now() time.Time {
    f.mu.Lock()
    defer f.mu.Unlock()
    return f.t
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
    f.mu.Lock()
    f.t = f.t.Add(d)
    f.mu.Unlock()
}

// Set jumps the clock to t.
func (f *Fake) Set(t time.Time) {
    f.mu.Lock()
    f.t = t
    f.mu.Unlock()
}
