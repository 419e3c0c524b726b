package batch

import "time"

// Overlaps reports whether two buffer-inclusive half-open intervals
// [startA, bufferEndA) and [startB, bufferEndB) intersect.  Both sides of
// every conflict check in the system go through this predicate so that the
// turnover buffer is enforced uniformly: a claim ending at 10:00 with a
// 15-minute buffer blocks another claim starting at 10:00.
//
// The function is pure and total for well-formed intervals; callers are
// responsible for start < bufferEnd.
func Overlaps(startA, bufferEndA, startB, bufferEndB time.Time) bool {
    return startA.Before(bufferEndB) && startB.Before(bufferEndA)
}

// Overlaps reports whether the interval intersects [start, bufferEnd).
func (iv Interval) Overlaps(start, bufferEnd time.Time) bool {
    return Overlaps(iv.Start, iv.BufferEnd, start, bufferEnd)
}
