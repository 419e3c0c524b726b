package batch

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

var day = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

func TestCatalogCoversOperatingDay(t *testing.T) {
    var prev Definition
    for i, typ := range Order {
        d, ok := Lookup(typ)
        require.True(t, ok)
        assert.Equal(t, time.Duration(HoursPerBatch)*time.Hour, d.End-d.Start)
        if i > 0 {
            assert.Equal(t, prev.End, d.Start, "batches are contiguous")
        }
        prev = d
    }
    first, _ := Lookup(Order[0])
    last, _ := Lookup(Order[len(Order)-1])
    assert.Equal(t, 6*time.Hour, first.Start)
    assert.Equal(t, 22*time.Hour, last.End)
}

func TestIntervalOn(t *testing.T) {
    iv := IntervalOn(MidDay, day)
    assert.Equal(t, day.Add(10*time.Hour), iv.Start)
    assert.Equal(t, day.Add(14*time.Hour), iv.End)
    assert.Equal(t, day.Add(14*time.Hour+15*time.Minute), iv.BufferEnd)
}

func TestOverlaps(t *testing.T) {
    at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

    cases := []struct {
        name                   string
        aStart, aBufEnd        time.Time
        bStart, bBufEnd        time.Time
        want                   bool
    }{
        {"identical", at(6, 0), at(10, 15), at(6, 0), at(10, 15), true},
        {"adjacent batch inside buffer", at(6, 0), at(10, 15), at(10, 0), at(14, 15), true},
        {"clear of the buffer", at(6, 0), at(10, 15), at(10, 15), at(14, 30), false},
        {"disjoint", at(6, 0), at(10, 15), at(18, 0), at(22, 15), false},
        {"contained", at(6, 0), at(22, 15), at(10, 0), at(14, 15), true},
        {"touching starts", at(6, 0), at(10, 15), at(5, 0), at(6, 0), false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aBufEnd, tc.bStart, tc.bBufEnd))
            assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bBufEnd, tc.aStart, tc.aBufEnd), "symmetric")
        })
    }
}

func TestNormalize(t *testing.T) {
    got, ok := Normalize([]string{"evening", "morning", "evening"})
    require.True(t, ok)
    assert.Equal(t, []Type{Morning, Evening}, got, "deduplicated and sorted into day order")

    _, ok = Normalize(nil)
    assert.False(t, ok)

    _, ok = Normalize([]string{"morning", "midnight"})
    assert.False(t, ok)
}

func TestSpan(t *testing.T) {
    earliest, latest := Span([]Type{Evening, Morning})
    assert.Equal(t, 6*time.Hour, earliest)
    assert.Equal(t, 22*time.Hour, latest)

    earliest, latest = Span([]Type{Afternoon})
    assert.Equal(t, 14*time.Hour, earliest)
    assert.Equal(t, 18*time.Hour, latest)
}

func TestParseDate(t *testing.T) {
    got, err := ParseDate("2026-01-15")
    require.NoError(t, err)
    assert.Equal(t, day, got)
    assert.Equal(t, time.UTC, got.Location())

    _, err = ParseDate("15/01/2026")
    assert.Error(t, err)
}
