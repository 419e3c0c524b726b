// Package batch defines the four canonical time batches of an operating day
// and the interval arithmetic used by every conflict check in the system.
// The catalog is immutable reference data: batches are fixed, totally
// ordered, non-overlapping and together cover the 16-hour operating day
// from 06:00 to 22:00.
package batch

import (
    "sort"
    "time"
)

// Type identifies one of the four canonical batches.
type Type string

const (
    Morning   Type = "morning"   // 06:00–10:00
    MidDay    Type = "mid_day"   // 10:00–14:00
    Afternoon Type = "afternoon" // 14:00–18:00
    Evening   Type = "evening"   // 18:00–22:00
)

// Buffer is the mandatory turnover gap appended to the end of every
// claimed interval.  Two claims whose buffered intervals touch are in
// conflict; the gap gives staff time to reset a cabin between users.
const Buffer = 15 * time.Minute

// HoursPerBatch is the length of a single batch in hours.
const HoursPerBatch = 4

// Definition describes a batch as offsets from midnight of its calendar
// day.  Offsets rather than clock strings keep interval projection a pure
// time.Time addition.
type Definition struct {
    Type  Type          // canonical identifier
    Label string        // human-readable name
    Start time.Duration // offset of the batch start from 00:00
    End   time.Duration // offset of the batch end from 00:00
}

// Order lists the batches in their canonical daily order.  Iteration over
// availability and pricing always follows this order.
var Order = []Type{Morning, MidDay, Afternoon, Evening}

var catalog = map[Type]Definition{
    Morning:   {Type: Morning, Label: "Morning", Start: 6 * time.Hour, End: 10 * time.Hour},
    MidDay:    {Type: MidDay, Label: "Mid-Day", Start: 10 * time.Hour, End: 14 * time.Hour},
    Afternoon: {Type: Afternoon, Label: "Afternoon", Start: 14 * time.Hour, End: 18 * time.Hour},
    Evening:   {Type: Evening, Label: "Evening", Start: 18 * time.Hour, End: 22 * time.Hour},
}

// Lookup returns the definition for a batch type.  The boolean is false
// for unknown types; the catalog is never extended at runtime.
func Lookup(t Type) (Definition, bool) {
    d, ok := catalog[t]
    return d, ok
}

// Parse converts a raw string into a batch Type.  It returns false for
// anything outside the four canonical values.
func Parse(s string) (Type, bool) {
    t := Type(s)
    _, ok := catalog[t]
    return t, ok
}

// Interval is a concrete claim window on a calendar day.  Start and End
// bound the usable time; BufferEnd extends End by the turnover Buffer and
// is the value all overlap checks compare against.
type Interval struct {
    Start     time.Time
    End       time.Time
    BufferEnd time.Time
}

// IntervalOn projects a batch onto a calendar day.  The day argument must
// be midnight UTC of the target date; callers obtain it from ParseDate.
func IntervalOn(t Type, day time.Time) Interval {
    d := catalog[t]
    end := day.Add(d.End)
    return Interval{
        Start:     day.Add(d.Start),
        End:       end,
        BufferEnd: end.Add(Buffer),
    }
}

// Normalize validates, deduplicates and sorts a raw batch selection into
// canonical day order.  It returns false when the list is empty after
// cleanup or contains an unknown batch.
func Normalize(raw []string) ([]Type, bool) {
    seen := make(map[Type]struct{}, len(raw))
    out := make([]Type, 0, len(raw))
    for _, s := range raw {
        t, ok := Parse(s)
        if !ok {
            return nil, false
        }
        if _, dup := seen[t]; dup {
            continue
        }
        seen[t] = struct{}{}
        out = append(out, t)
    }
    if len(out) == 0 {
        return nil, false
    }
    sort.Slice(out, func(i, j int) bool { return catalog[out[i]].Start < catalog[out[j]].Start })
    return out, true
}

// Span returns the earliest start offset and latest end offset across a
// selection.  It is used by the recurrence scanner to derive one day's
// concrete interval and by confirmation to compute a group's outer window.
// The selection must be non-empty and already validated.
func Span(types []Type) (earliest, latest time.Duration) {
    earliest = catalog[types[0]].Start
    latest = catalog[types[0]].End
    for _, t := range types[1:] {
        d := catalog[t]
        if d.Start < earliest {
            earliest = d.Start
        }
        if d.End > latest {
            latest = d.End
        }
    }
    return earliest, latest
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC of that date.
func ParseDate(s string) (time.Time, error) {
    return time.Parse("2006-01-02", s)
}
