package service

import (
    "context"
    "log"
    "sort"
    "time"

    "github.com/google/uuid"

    "github.com/studynest/cabin-booking/internal/batch"
    "github.com/studynest/cabin-booking/internal/clock"
    "github.com/studynest/cabin-booking/internal/model"
    "github.com/studynest/cabin-booking/internal/queue"
    "github.com/studynest/cabin-booking/internal/repository"
)

// HoldTTL is the business-rule lifetime of a hold.  Expiry is evaluated
// by wall-clock comparison against held_until, never by a process-local
// timer that a restart would lose.
const HoldTTL = 15 * time.Minute

// HoldGroup is the result of a successful hold request.
type HoldGroup struct {
    GroupID   string       `json:"group_id"`
    CabinID   uint64       `json:"cabin_id"`
    Batches   []batch.Type `json:"batches"`
    HeldUntil time.Time    `json:"held_until"`
}

// Confirmation is the result of converting a hold into bookings.
type Confirmation struct {
    GroupID     string         `json:"group_id"`
    BookingIDs  []uint64       `json:"booking_ids"`
    SlotType    model.SlotType `json:"slot_type"`
    TotalAmount uint32         `json:"total_amount"`
}

// BookingService is the reservation core.  Every method may block on
// store I/O and honours ctx cancellation.  The publisher may be nil, in
// which case events are simply not emitted.
type BookingService struct {
    store Store
    clk   clock.Clock
    pub   Publisher
}

// NewBookingService wires the core to its collaborators.
func NewBookingService(store Store, clk clock.Clock, pub Publisher) *BookingService {
    if store == nil || clk == nil {
        panic("nil dependency passed to NewBookingService")
    }
    return &BookingService{store: store, clk: clk, pub: pub}
}

// GetAvailability returns the per-batch view of one cabin's day.  Pass
// callerID 0 for anonymous requests; ownership flags are then always
// false.  Read-only and safe to retry.
func (s *BookingService) GetAvailability(ctx context.Context, cabinID uint64, date string, callerID uint64) (*model.DayAvailability, error) {
    day, err := batch.ParseDate(date)
    if err != nil {
        return nil, ErrInvalidRequest
    }
    if err := s.store.CabinExists(ctx, cabinID); err != nil {
        return nil, err
    }
    now := s.clk.Now()
    // Fetch the whole calendar day; the projection trims to batches.
    holds, bookings, err := s.store.HoldsAndBookings(ctx, cabinID, day, day.AddDate(0, 0, 1), now)
    if err != nil {
        return nil, err
    }
    return computeDayAvailability(cabinID, day, holds, bookings, now, callerID), nil
}

// CreateHold places a 15-minute exclusive claim on the selected batches.
// The whole request succeeds or fails as one unit: if any batch
// conflicts, no rows are left behind and repository.ErrSlotUnavailable is
// returned.  An empty or unknown selection, a malformed date, or a date
// in the past yields ErrInvalidRequest.
func (s *BookingService) CreateHold(ctx context.Context, cabinID, userID uint64, date string, rawBatches []string) (*HoldGroup, error) {
    types, ok := batch.Normalize(rawBatches)
    if !ok {
        return nil, ErrInvalidRequest
    }
    day, err := batch.ParseDate(date)
    if err != nil {
        return nil, ErrInvalidRequest
    }
    now := s.clk.Now()
    if day.Before(now.Truncate(24 * time.Hour)) {
        return nil, ErrInvalidRequest
    }
    if err := s.store.CabinExists(ctx, cabinID); err != nil {
        return nil, err
    }

    groupID := uuid.New().String()
    heldUntil := now.Add(HoldTTL)
    holds := make([]model.Hold, 0, len(types))
    for _, t := range types {
        iv := batch.IntervalOn(t, day)
        holds = append(holds, model.Hold{
            GroupID:            groupID,
            CabinID:            cabinID,
            UserID:             userID,
            BatchType:          t,
            StartTimestamp:     iv.Start,
            EndTimestamp:       iv.End,
            BufferEndTimestamp: iv.BufferEnd,
            HeldUntil:          heldUntil,
        })
    }
    if err := s.store.CreateHoldGroup(ctx, holds, now); err != nil {
        return nil, err
    }
    return &HoldGroup{GroupID: groupID, CabinID: cabinID, Batches: types, HeldUntil: heldUntil}, nil
}

// ReleaseHold is the best-effort cleanup path: idempotent, always ok even
// when the group is already gone.  Expiry remains the authoritative
// backstop for abandoned holds.
func (s *BookingService) ReleaseHold(ctx context.Context, groupID string) error {
    return s.store.ReleaseHoldGroup(ctx, groupID, s.clk.Now())
}

// RemainingSeconds reports the live countdown for a hold group:
// max(0, heldUntil − now).  A vanished or expired group reports zero; the
// value is recomputed from the wall clock on every call so it survives
// refresh and reconnect.
func (s *BookingService) RemainingSeconds(ctx context.Context, groupID string) (int64, error) {
    holds, err := s.store.HoldGroup(ctx, groupID)
    if err != nil {
        return 0, err
    }
    if len(holds) == 0 {
        return 0, nil
    }
    remaining := int64(holds[0].HeldUntil.Sub(s.clk.Now()) / time.Second)
    if remaining < 0 {
        remaining = 0
    }
    return remaining, nil
}

// CheckMonthlyConflicts projects the selected batches across 30
// consecutive days and reports the dates already blocked by a hold or
// booking.  The store is asked once for the whole window, never once per
// day.  Callers must reject monthly requests whose report has conflicts
// and surface the blocked dates to the user.
func (s *BookingService) CheckMonthlyConflicts(ctx context.Context, cabinID uint64, startDate string, rawBatches []string) (*ConflictReport, error) {
    types, ok := batch.Normalize(rawBatches)
    if !ok {
        return nil, ErrInvalidRequest
    }
    day, err := batch.ParseDate(startDate)
    if err != nil {
        return nil, ErrInvalidRequest
    }
    if err := s.store.CabinExists(ctx, cabinID); err != nil {
        return nil, err
    }
    now := s.clk.Now()
    earliest, latest := batch.Span(types)
    from := day.Add(earliest)
    to := day.AddDate(0, 0, RecurrenceDays).Add(latest)
    holds, bookings, err := s.store.HoldsAndBookings(ctx, cabinID, from, to, now)
    if err != nil {
        return nil, err
    }
    report := scanRecurrence(day, types, holds, bookings, now)
    return &report, nil
}

// ConfirmHold converts an active hold group into durable bookings.  It
// fails with repository.ErrHoldExpired after the TTL (creating nothing),
// with repository.ErrConflictOnConfirm when a race slipped a conflicting
// booking in, and with repository.ErrHoldNotFound when the group does not
// belong to the caller.  On success the holds are gone, the bookings
// exist and a booking.confirmed event is published.
func (s *BookingService) ConfirmHold(ctx context.Context, groupID string, userID uint64, mode model.BookingMode, withLocker bool) (*Confirmation, error) {
    if mode != model.ModeDaily && mode != model.ModeMonthly {
        return nil, ErrInvalidRequest
    }
    now := s.clk.Now()

    var (
        conf    Confirmation
        cabinID uint64
        batches []string
    )
    ids, err := s.store.ConfirmHoldGroup(ctx, groupID, now, func(holds []model.Hold) ([]model.Booking, error) {
        for _, h := range holds {
            if h.UserID != userID {
                return nil, repository.ErrHoldNotFound
            }
        }
        cabinID = holds[0].CabinID
        for _, h := range holds {
            batches = append(batches, string(h.BatchType))
        }
        bookings, total, slotType := buildBookings(holds, mode, withLocker)
        conf.SlotType = slotType
        conf.TotalAmount = total
        return bookings, nil
    })
    if err != nil {
        return nil, err
    }
    conf.GroupID = groupID
    conf.BookingIDs = ids

    if s.pub != nil {
        ev := queue.BookingConfirmedEvent{
            GroupID:     groupID,
            BookingIDs:  ids,
            UserID:      userID,
            CabinID:     cabinID,
            BookingType: string(mode),
            SlotType:    string(conf.SlotType),
            Batches:     batches,
            HasLocker:   withLocker,
            TotalAmount: conf.TotalAmount,
            ConfirmedAt: now.Format(time.RFC3339),
        }
        if err := s.pub.PublishBookingConfirmed(ctx, ev); err != nil {
            log.Printf("booking-service: publish booking.confirmed failed: %v", err)
        }
    }
    return &conf, nil
}

// buildBookings derives the per-batch booking rows from the locked hold
// rows.  Daily rows keep the hold's same-day interval; monthly rows keep
// the start and stretch the end to thirty days later at the batch's end
// time, so one row covers the whole recurrence in a single range
// comparison.
func buildBookings(holds []model.Hold, mode model.BookingMode, withLocker bool) ([]model.Booking, uint32, model.SlotType) {
    sorted := make([]model.Hold, len(holds))
    copy(sorted, holds)
    sort.Slice(sorted, func(i, j int) bool {
        return sorted[i].StartTimestamp.Before(sorted[j].StartTimestamp)
    })

    slotType := SlotTypeFor(mode, len(sorted))
    total, shares := Quote(mode, len(sorted), withLocker)

    bookings := make([]model.Booking, 0, len(sorted))
    for i, h := range sorted {
        end := h.EndTimestamp
        if mode == model.ModeMonthly {
            end = end.AddDate(0, 0, RecurrenceDays)
        }
        day := h.StartTimestamp.Truncate(24 * time.Hour)
        bookings = append(bookings, model.Booking{
            GroupID:            h.GroupID,
            CabinID:            h.CabinID,
            UserID:             h.UserID,
            BatchType:          h.BatchType,
            BookingType:        mode,
            SlotType:           slotType,
            Status:             model.BookingConfirmed,
            Amount:             shares[i],
            HasLocker:          withLocker,
            StartTimestamp:     h.StartTimestamp,
            EndTimestamp:       end,
            BufferEndTimestamp: end.Add(batch.Buffer),
            BookingDate:        day,
        })
    }
    return bookings, total, slotType
}
