package model

import (
    "time"

    "github.com/studynest/cabin-booking/internal/batch"
)

// HasConflict reports whether any requested interval collides with an
// existing unexpired hold or confirmed booking on the same cabin.  Every
// writer, the MySQL store inside its row-locked transaction and the test
// fakes alike, funnels its admission decision through this one function so
// the buffer rule cannot drift between implementations.
//
// Rows whose GroupID equals excludeGroup are skipped: batches claimed
// together form a single claim, and adjacent batches of one selection
// would otherwise conflict with each other through the turnover buffer.
// Expired holds are skipped regardless of whether a sweeper has deleted
// them yet.
func HasConflict(requested []batch.Interval, holds []Hold, bookings []Booking, excludeGroup string, now time.Time) bool {
    for _, iv := range requested {
        for _, h := range holds {
            if h.GroupID == excludeGroup || h.Expired(now) {
                continue
            }
            if iv.Overlaps(h.StartTimestamp, h.BufferEndTimestamp) {
                return true
            }
        }
        for _, b := range bookings {
            if b.GroupID == excludeGroup || b.Status != BookingConfirmed {
                continue
            }
            if iv.Overlaps(b.StartTimestamp, b.BufferEndTimestamp) {
                return true
            }
        }
    }
    return false
}
