package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

// A hold at the exact instant held_until is still active; it expires only
// once the clock passes it.  The SQL predicates (held_until >= now for
// active rows, held_until < now for the sweep) must agree with this.
func TestHoldExpiryBoundary(t *testing.T) {
    deadline := time.Date(2026, time.January, 15, 9, 15, 0, 0, time.UTC)
    h := Hold{HeldUntil: deadline}

    assert.False(t, h.Expired(deadline.Add(-time.Second)))
    assert.False(t, h.Expired(deadline), "active through the deadline itself")
    assert.True(t, h.Expired(deadline.Add(time.Second)))
}
