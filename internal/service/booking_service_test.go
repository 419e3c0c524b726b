package service

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/studynest/cabin-booking/internal/batch"
    "github.com/studynest/cabin-booking/internal/clock"
    "github.com/studynest/cabin-booking/internal/model"
    "github.com/studynest/cabin-booking/internal/queue"
    "github.com/studynest/cabin-booking/internal/repository"
)

// fakeStore is an in-memory Store for exercising the service layer
// without MySQL.  Its admission decisions go through model.HasConflict,
// the same predicate the transactional store uses, and the whole struct
// is guarded by one mutex so concurrent callers serialize the way row
// locks serialize them in production.
type fakeStore struct {
    mu            sync.Mutex
    cabins        map[uint64]struct{}
    holds         []model.Hold
    bookings      []model.Booking
    nextHoldID    uint64
    nextBookingID uint64
}

func newFakeStore(cabinIDs ...uint64) *fakeStore {
    s := &fakeStore{cabins: make(map[uint64]struct{})}
    for _, id := range cabinIDs {
        s.cabins[id] = struct{}{}
    }
    return s
}

func (s *fakeStore) CabinExists(_ context.Context, cabinID uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.cabins[cabinID]; !ok {
        return repository.ErrCabinNotFound
    }
    return nil
}

func (s *fakeStore) cabinRowsLocked(cabinID uint64) ([]model.Hold, []model.Booking) {
    var hs []model.Hold
    for _, h := range s.holds {
        if h.CabinID == cabinID {
            hs = append(hs, h)
        }
    }
    var bs []model.Booking
    for _, b := range s.bookings {
        if b.CabinID == cabinID {
            bs = append(bs, b)
        }
    }
    return hs, bs
}

func intervalsOf(holds []model.Hold) []batch.Interval {
    ivs := make([]batch.Interval, 0, len(holds))
    for _, h := range holds {
        ivs = append(ivs, batch.Interval{
            Start:     h.StartTimestamp,
            End:       h.EndTimestamp,
            BufferEnd: h.BufferEndTimestamp,
        })
    }
    return ivs
}

func (s *fakeStore) CreateHoldGroup(_ context.Context, holds []model.Hold, now time.Time) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    existingHolds, existingBookings := s.cabinRowsLocked(holds[0].CabinID)
    if model.HasConflict(intervalsOf(holds), existingHolds, existingBookings, holds[0].GroupID, now) {
        return repository.ErrSlotUnavailable
    }
    for _, h := range holds {
        s.nextHoldID++
        h.ID = s.nextHoldID
        s.holds = append(s.holds, h)
    }
    return nil
}

func (s *fakeStore) HoldGroup(_ context.Context, groupID string) ([]model.Hold, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Hold
    for _, h := range s.holds {
        if h.GroupID == groupID {
            out = append(out, h)
        }
    }
    return out, nil
}

func (s *fakeStore) ReleaseHoldGroup(_ context.Context, groupID string, _ time.Time) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.deleteGroupLocked(groupID)
    return nil
}

func (s *fakeStore) deleteGroupLocked(groupID string) {
    kept := s.holds[:0]
    for _, h := range s.holds {
        if h.GroupID != groupID {
            kept = append(kept, h)
        }
    }
    s.holds = kept
}

func (s *fakeStore) HoldsAndBookings(_ context.Context, cabinID uint64, from, to, now time.Time) ([]model.Hold, []model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var hs []model.Hold
    for _, h := range s.holds {
        if h.CabinID == cabinID && h.StartTimestamp.Before(to) && h.BufferEndTimestamp.After(from) && !h.Expired(now) {
            hs = append(hs, h)
        }
    }
    var bs []model.Booking
    for _, b := range s.bookings {
        if b.CabinID == cabinID && b.Status == model.BookingConfirmed &&
            b.StartTimestamp.Before(to) && b.BufferEndTimestamp.After(from) {
            bs = append(bs, b)
        }
    }
    return hs, bs, nil
}

func (s *fakeStore) ConfirmHoldGroup(_ context.Context, groupID string, now time.Time,
    build func(holds []model.Hold) ([]model.Booking, error)) ([]uint64, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var group []model.Hold
    for _, h := range s.holds {
        if h.GroupID == groupID && !h.Expired(now) {
            group = append(group, h)
        }
    }
    if len(group) == 0 {
        return nil, repository.ErrHoldExpired
    }
    built, err := build(group)
    if err != nil {
        return nil, err
    }
    intervals := make([]batch.Interval, 0, len(built))
    for _, b := range built {
        intervals = append(intervals, batch.Interval{
            Start:     b.StartTimestamp,
            End:       b.EndTimestamp,
            BufferEnd: b.BufferEndTimestamp,
        })
    }
    existingHolds, existingBookings := s.cabinRowsLocked(group[0].CabinID)
    if model.HasConflict(intervals, existingHolds, existingBookings, groupID, now) {
        return nil, repository.ErrConflictOnConfirm
    }
    ids := make([]uint64, 0, len(built))
    for _, b := range built {
        s.nextBookingID++
        b.ID = s.nextBookingID
        s.bookings = append(s.bookings, b)
        ids = append(ids, b.ID)
    }
    s.deleteGroupLocked(groupID)
    return ids, nil
}

func (s *fakeStore) DeleteExpiredHolds(_ context.Context, now time.Time) ([]model.Hold, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var expired []model.Hold
    kept := s.holds[:0]
    for _, h := range s.holds {
        if h.Expired(now) {
            expired = append(expired, h)
        } else {
            kept = append(kept, h)
        }
    }
    s.holds = kept
    return expired, nil
}

// fakePublisher records published events.
type fakePublisher struct {
    mu        sync.Mutex
    confirmed []queue.BookingConfirmedEvent
    expired   []queue.HoldExpiredEvent
}

func (p *fakePublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.confirmed = append(p.confirmed, ev)
    return nil
}

func (p *fakePublisher) PublishHoldExpired(_ context.Context, ev queue.HoldExpiredEvent) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.expired = append(p.expired, ev)
    return nil
}

const (
    testCabin  uint64 = 1
    userAlice  uint64 = 10
    userBob    uint64 = 20
    testDate          = "2026-01-15"
)

var testNow = time.Date(2026, time.January, 14, 9, 0, 0, 0, time.UTC)

func newTestService(cabins ...uint64) (*BookingService, *fakeStore, *clock.Fake, *fakePublisher) {
    if len(cabins) == 0 {
        cabins = []uint64{testCabin}
    }
    store := newFakeStore(cabins...)
    clk := clock.NewFake(testNow)
    pub := &fakePublisher{}
    return NewBookingService(store, clk, pub), store, clk, pub
}

func TestCreateHoldValidation(t *testing.T) {
    svc, _, _, _ := newTestService()
    ctx := context.Background()

    _, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, nil)
    assert.ErrorIs(t, err, ErrInvalidRequest, "empty selection")

    _, err = svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"midnight"})
    assert.ErrorIs(t, err, ErrInvalidRequest, "unknown batch")

    _, err = svc.CreateHold(ctx, testCabin, userAlice, "15-01-2026", []string{"morning"})
    assert.ErrorIs(t, err, ErrInvalidRequest, "malformed date")

    _, err = svc.CreateHold(ctx, testCabin, userAlice, "2026-01-13", []string{"morning"})
    assert.ErrorIs(t, err, ErrInvalidRequest, "past date")

    _, err = svc.CreateHold(ctx, 999, userAlice, testDate, []string{"morning"})
    assert.ErrorIs(t, err, repository.ErrCabinNotFound)
}

func TestHoldCountdown(t *testing.T) {
    svc, _, clk, _ := newTestService()
    ctx := context.Background()

    g, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning"})
    require.NoError(t, err)
    assert.Equal(t, testNow.Add(HoldTTL), g.HeldUntil)

    remaining, err := svc.RemainingSeconds(ctx, g.GroupID)
    require.NoError(t, err)
    assert.EqualValues(t, 900, remaining)

    clk.Advance(10 * time.Minute)
    remaining, err = svc.RemainingSeconds(ctx, g.GroupID)
    require.NoError(t, err)
    assert.EqualValues(t, 300, remaining)

    clk.Advance(10 * time.Minute)
    remaining, err = svc.RemainingSeconds(ctx, g.GroupID)
    require.NoError(t, err)
    assert.Zero(t, remaining, "expired hold counts down to zero, never negative")

    remaining, err = svc.RemainingSeconds(ctx, "no-such-group")
    require.NoError(t, err)
    assert.Zero(t, remaining)
}

func TestHoldBlocksOtherUser(t *testing.T) {
    svc, _, _, _ := newTestService()
    ctx := context.Background()

    _, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning"})
    require.NoError(t, err)

    _, err = svc.CreateHold(ctx, testCabin, userBob, testDate, []string{"morning"})
    assert.ErrorIs(t, err, repository.ErrSlotUnavailable)

    // A non-adjacent batch on the same day is untouched by Alice's claim.
    _, err = svc.CreateHold(ctx, testCabin, userBob, testDate, []string{"evening"})
    assert.NoError(t, err)
}

func TestTurnoverBufferBlocksAdjacentBatch(t *testing.T) {
    svc, _, _, _ := newTestService()
    ctx := context.Background()

    // Morning ends 10:00 and its buffer runs to 10:15, inside mid-day.
    _, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning"})
    require.NoError(t, err)

    _, err = svc.CreateHold(ctx, testCabin, userBob, testDate, []string{"mid_day"})
    assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
}

func TestAdjacentBatchesInOneRequest(t *testing.T) {
    svc, _, _, _ := newTestService()
    ctx := context.Background()

    // One selection is one claim: its own batches never conflict with
    // each other through the buffer.
    g, err := svc.CreateHold(ctx, testCabin, userAlice, testDate,
        []string{"mid_day", "morning", "morning"})
    require.NoError(t, err)
    assert.Equal(t, []batch.Type{batch.Morning, batch.MidDay}, g.Batches,
        "selection is deduplicated and sorted into day order")
}

func TestPartialConflictLeavesNothingBehind(t *testing.T) {
    svc, store, _, _ := newTestService()
    ctx := context.Background()

    _, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"mid_day"})
    require.NoError(t, err)

    // Bob wants morning and evening; morning collides with Alice's
    // mid-day claim through the buffer, so neither row may land.
    _, err = svc.CreateHold(ctx, testCabin, userBob, testDate, []string{"morning", "evening"})
    assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
    assert.Len(t, store.holds, 1, "the failed request inserted nothing")
}

func TestConcurrentHoldsOneWinner(t *testing.T) {
    svc, store, _, _ := newTestService()
    ctx := context.Background()

    const attempts = 16
    errs := make(chan error, attempts)
    var wg sync.WaitGroup
    for i := 0; i < attempts; i++ {
        wg.Add(1)
        go func(user uint64) {
            defer wg.Done()
            _, err := svc.CreateHold(ctx, testCabin, user, testDate, []string{"afternoon"})
            errs <- err
        }(uint64(100 + i))
    }
    wg.Wait()
    close(errs)

    var ok, conflict int
    for err := range errs {
        switch {
        case err == nil:
            ok++
        default:
            assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
            conflict++
        }
    }
    assert.Equal(t, 1, ok, "exactly one concurrent request wins the slot")
    assert.Equal(t, attempts-1, conflict)
    assert.Len(t, store.holds, 1)
}

func TestExpiredHoldIsInvisible(t *testing.T) {
    svc, store, clk, _ := newTestService()
    ctx := context.Background()

    gAlice, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning"})
    require.NoError(t, err)

    clk.Advance(16 * time.Minute)

    // Alice's lapsed hold no longer blocks Bob, sweeper or not.
    _, err = svc.CreateHold(ctx, testCabin, userBob, testDate, []string{"morning"})
    require.NoError(t, err)

    // Nor can Alice confirm it anymore, and nothing is created trying.
    _, err = svc.ConfirmHold(ctx, gAlice.GroupID, userAlice, model.ModeDaily, false)
    assert.ErrorIs(t, err, repository.ErrHoldExpired)
    assert.Empty(t, store.bookings)
}

func TestConfirmDaily(t *testing.T) {
    svc, store, clk, pub := newTestService()
    ctx := context.Background()

    g, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning", "mid_day"})
    require.NoError(t, err)

    conf, err := svc.ConfirmHold(ctx, g.GroupID, userAlice, model.ModeDaily, true)
    require.NoError(t, err)
    assert.Len(t, conf.BookingIDs, 2)
    assert.Equal(t, model.SlotEightHours, conf.SlotType)
    assert.EqualValues(t, 2*DailyPricePerBatch+LockerPrice, conf.TotalAmount)

    // Holds are consumed by confirmation.
    remaining, err := svc.RemainingSeconds(ctx, g.GroupID)
    require.NoError(t, err)
    assert.Zero(t, remaining)
    assert.Empty(t, store.holds)

    // Booked batches stay booked past the hold TTL.
    clk.Advance(time.Hour)
    day, err := svc.GetAvailability(ctx, testCabin, testDate, userAlice)
    require.NoError(t, err)
    assert.Equal(t, model.SlotBooked, day.Batches[0].Status)
    assert.True(t, day.Batches[0].IsOwn)
    assert.Equal(t, model.SlotBooked, day.Batches[1].Status)
    assert.Equal(t, model.SlotAvailable, day.Batches[3].Status)

    require.Len(t, pub.confirmed, 1)
    ev := pub.confirmed[0]
    assert.Equal(t, g.GroupID, ev.GroupID)
    assert.Equal(t, conf.BookingIDs, ev.BookingIDs)
    assert.Equal(t, testCabin, ev.CabinID)
    assert.Equal(t, []string{"morning", "mid_day"}, ev.Batches)
    assert.True(t, ev.HasLocker)
}

func TestConfirmRejectsForeignGroup(t *testing.T) {
    svc, store, _, _ := newTestService()
    ctx := context.Background()

    g, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning"})
    require.NoError(t, err)

    _, err = svc.ConfirmHold(ctx, g.GroupID, userBob, model.ModeDaily, false)
    assert.ErrorIs(t, err, repository.ErrHoldNotFound)
    assert.Len(t, store.holds, 1, "a foreign confirm attempt leaves the hold intact")
    assert.Empty(t, store.bookings)
}

func TestConfirmRejectsConflictingBooking(t *testing.T) {
    svc, store, _, pub := newTestService()
    ctx := context.Background()

    g, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning"})
    require.NoError(t, err)

    // A confirmed booking lands on the same batch before Alice confirms.
    morning := batch.IntervalOn(batch.Morning, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC))
    store.bookings = append(store.bookings, model.Booking{
        ID:                 99,
        GroupID:            "other",
        CabinID:            testCabin,
        UserID:             userBob,
        BatchType:          batch.Morning,
        BookingType:        model.ModeDaily,
        Status:             model.BookingConfirmed,
        StartTimestamp:     morning.Start,
        EndTimestamp:       morning.End,
        BufferEndTimestamp: morning.BufferEnd,
    })

    _, err = svc.ConfirmHold(ctx, g.GroupID, userAlice, model.ModeDaily, false)
    assert.ErrorIs(t, err, repository.ErrConflictOnConfirm)

    // The rejected confirm writes nothing and does not consume the hold.
    assert.Len(t, store.holds, 1)
    assert.Len(t, store.bookings, 1)
    assert.Empty(t, pub.confirmed)
}

func TestConfirmMonthlyStretchesInterval(t *testing.T) {
    svc, _, _, _ := newTestService()
    ctx := context.Background()

    g, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning"})
    require.NoError(t, err)

    conf, err := svc.ConfirmHold(ctx, g.GroupID, userAlice, model.ModeMonthly, false)
    require.NoError(t, err)
    assert.Equal(t, model.SlotMonthly, conf.SlotType)
    assert.EqualValues(t, MonthlyPricePerBatch, conf.TotalAmount)

    // The single booking row covers every day of the pass.
    day, err := svc.GetAvailability(ctx, testCabin, "2026-02-10", 0)
    require.NoError(t, err)
    assert.Equal(t, model.SlotBooked, day.Batches[0].Status)

    // And nothing past it.
    day, err = svc.GetAvailability(ctx, testCabin, "2026-02-15", 0)
    require.NoError(t, err)
    assert.Equal(t, model.SlotAvailable, day.Batches[0].Status)

    _, err = svc.CreateHold(ctx, testCabin, userBob, "2026-02-10", []string{"morning"})
    assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
}

func TestCheckMonthlyConflicts(t *testing.T) {
    svc, store, _, _ := newTestService()
    ctx := context.Background()

    report, err := svc.CheckMonthlyConflicts(ctx, testCabin, testDate, []string{"morning"})
    require.NoError(t, err)
    assert.False(t, report.HasConflicts)
    assert.Empty(t, report.ConflictDates)

    // A confirmed daily booking on Feb 1 sits inside the 30-day window.
    feb1 := batch.IntervalOn(batch.Morning, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))
    store.bookings = append(store.bookings, model.Booking{
        ID:                 1,
        GroupID:            "other",
        CabinID:            testCabin,
        UserID:             userBob,
        BatchType:          batch.Morning,
        BookingType:        model.ModeDaily,
        Status:             model.BookingConfirmed,
        StartTimestamp:     feb1.Start,
        EndTimestamp:       feb1.End,
        BufferEndTimestamp: feb1.BufferEnd,
    })

    report, err = svc.CheckMonthlyConflicts(ctx, testCabin, testDate, []string{"morning"})
    require.NoError(t, err)
    assert.True(t, report.HasConflicts)
    assert.Equal(t, []string{"Feb 1"}, report.ConflictDates)

    // The evening batch never touches a morning booking.
    report, err = svc.CheckMonthlyConflicts(ctx, testCabin, testDate, []string{"evening"})
    require.NoError(t, err)
    assert.False(t, report.HasConflicts)

    _, err = svc.CheckMonthlyConflicts(ctx, testCabin, testDate, []string{"brunch"})
    assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestReleaseHoldIsIdempotent(t *testing.T) {
    svc, _, _, _ := newTestService()
    ctx := context.Background()

    g, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning"})
    require.NoError(t, err)

    require.NoError(t, svc.ReleaseHold(ctx, g.GroupID))

    day, err := svc.GetAvailability(ctx, testCabin, testDate, 0)
    require.NoError(t, err)
    assert.Equal(t, model.SlotAvailable, day.Batches[0].Status)

    assert.NoError(t, svc.ReleaseHold(ctx, g.GroupID), "double release is fine")
}

func TestAvailabilityShowsHeld(t *testing.T) {
    svc, _, _, _ := newTestService()
    ctx := context.Background()

    _, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"afternoon"})
    require.NoError(t, err)

    day, err := svc.GetAvailability(ctx, testCabin, testDate, userAlice)
    require.NoError(t, err)
    assert.Equal(t, model.SlotHeld, day.Batches[2].Status)
    assert.True(t, day.Batches[2].IsOwn)

    day, err = svc.GetAvailability(ctx, testCabin, testDate, userBob)
    require.NoError(t, err)
    assert.Equal(t, model.SlotHeld, day.Batches[2].Status)
    assert.False(t, day.Batches[2].IsOwn)

    _, err = svc.GetAvailability(ctx, testCabin, "not-a-date", 0)
    assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSweeperRemovesAndPublishes(t *testing.T) {
    svc, store, clk, pub := newTestService()
    ctx := context.Background()

    g, err := svc.CreateHold(ctx, testCabin, userAlice, testDate, []string{"morning", "mid_day"})
    require.NoError(t, err)

    sw := NewSweeper(store, clk, pub, time.Minute)

    // Nothing to do before the TTL lapses.
    sw.sweep()
    assert.Len(t, store.holds, 2)
    assert.Empty(t, pub.expired)

    clk.Advance(16 * time.Minute)
    sw.sweep()
    assert.Empty(t, store.holds)
    require.Len(t, pub.expired, 1, "one event per group, not per row")
    ev := pub.expired[0]
    assert.Equal(t, g.GroupID, ev.GroupID)
    assert.Equal(t, userAlice, ev.UserID)
    assert.Equal(t, []string{"morning", "mid_day"}, ev.Batches)
}
