package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/studynest/cabin-booking/internal/batch"
    "github.com/studynest/cabin-booking/internal/model"
)

// Store bundles the repositories into the transactional operations the
// reservation core needs: insert-holds-if-no-overlap, confirm-then-release
// and the range reads.  The two mutating operations take the cabin's row
// lock before their check-then-insert sequence, so concurrent callers on
// the same cabin are serialized by the database while different cabins
// proceed in parallel.
type Store struct {
    db       *sql.DB
    cabins   *CabinRepo
    holds    *HoldRepo
    bookings *BookingRepo
}

// NewStore constructs a Store over the shared DB handle.
func NewStore(db *sql.DB, cabins *CabinRepo, holds *HoldRepo, bookings *BookingRepo) *Store {
    return &Store{db: db, cabins: cabins, holds: holds, bookings: bookings}
}

// CabinExists verifies the cabin id.  Returns ErrCabinNotFound otherwise.
func (s *Store) CabinExists(ctx context.Context, cabinID uint64) error {
    _, err := s.cabins.GetByID(ctx, cabinID)
    return err
}

// CreateHoldGroup atomically inserts a hold group: under the cabin row
// lock it fetches every unexpired hold and confirmed booking intersecting
// the group's outer window, rejects with ErrSlotUnavailable on any
// buffered overlap, and otherwise inserts all rows.  Partial groups are
// never left behind.
func (s *Store) CreateHoldGroup(ctx context.Context, holds []model.Hold, now time.Time) error {
    if len(holds) == 0 {
        return nil
    }
    cabinID := holds[0].CabinID

    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := s.cabins.LockTx(ctx, tx, cabinID); err != nil {
        return err
    }

    requested := make([]batch.Interval, 0, len(holds))
    from, to := holds[0].StartTimestamp, holds[0].BufferEndTimestamp
    for _, h := range holds {
        requested = append(requested, batch.Interval{
            Start: h.StartTimestamp, End: h.EndTimestamp, BufferEnd: h.BufferEndTimestamp,
        })
        if h.StartTimestamp.Before(from) {
            from = h.StartTimestamp
        }
        if h.BufferEndTimestamp.After(to) {
            to = h.BufferEndTimestamp
        }
    }

    existingHolds, err := s.holds.ActiveByCabinRangeTx(ctx, tx, cabinID, from, to, now)
    if err != nil {
        return err
    }
    existingBookings, err := s.bookings.ConfirmedByCabinRangeTx(ctx, tx, cabinID, from, to)
    if err != nil {
        return err
    }
    if model.HasConflict(requested, existingHolds, existingBookings, holds[0].GroupID, now) {
        return ErrSlotUnavailable
    }

    if err := s.holds.CreateGroupTx(ctx, tx, holds); err != nil {
        return err
    }
    if err := s.cabins.RefreshStatusTx(ctx, tx, cabinID, now); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// HoldGroup returns the rows of a hold group, expired or not.
func (s *Store) HoldGroup(ctx context.Context, groupID string) ([]model.Hold, error) {
    return s.holds.Group(ctx, groupID)
}

// ReleaseHoldGroup idempotently deletes a hold group and refreshes the
// cabin's cached status when anything was removed.
func (s *Store) ReleaseHoldGroup(ctx context.Context, groupID string, now time.Time) error {
    holds, err := s.holds.Group(ctx, groupID)
    if err != nil {
        return err
    }
    if _, err := s.holds.DeleteGroup(ctx, groupID); err != nil {
        return err
    }
    if len(holds) > 0 {
        return s.refreshCabin(ctx, holds[0].CabinID, now)
    }
    return nil
}

// HoldsAndBookings returns every unexpired hold and confirmed booking on
// the cabin whose buffered interval intersects [from, to): one range
// query per table regardless of how many days the range spans.
func (s *Store) HoldsAndBookings(ctx context.Context, cabinID uint64, from, to, now time.Time) ([]model.Hold, []model.Booking, error) {
    holds, err := s.holds.ActiveByCabinRange(ctx, cabinID, from, to, now)
    if err != nil {
        return nil, nil, err
    }
    bookings, err := s.bookings.ConfirmedByCabinRange(ctx, cabinID, from, to)
    if err != nil {
        return nil, nil, err
    }
    return holds, bookings, nil
}

// ConfirmHoldGroup converts an active hold group into booking rows in a
// single transaction: lock the cabin, re-read the group under lock, fail
// with ErrHoldExpired if it is gone or past its TTL, re-check the new
// intervals against everyone else's rows (ErrConflictOnConfirm on a lost
// race), insert the bookings and only then delete the holds.  A failed
// insert therefore rolls back with the hold intact and retriable.
//
// The build callback derives the booking rows from the locked hold rows
// so pricing and mode stretching happen on authoritative data.
func (s *Store) ConfirmHoldGroup(ctx context.Context, groupID string, now time.Time,
    build func(holds []model.Hold) ([]model.Booking, error)) ([]uint64, error) {

    holds, err := s.holds.Group(ctx, groupID)
    if err != nil {
        return nil, err
    }
    if len(holds) == 0 {
        return nil, ErrHoldExpired
    }
    cabinID := holds[0].CabinID

    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := s.cabins.LockTx(ctx, tx, cabinID); err != nil {
        return nil, err
    }
    holds, err = s.holds.GroupTx(ctx, tx, groupID)
    if err != nil {
        return nil, err
    }
    if len(holds) == 0 {
        return nil, ErrHoldExpired
    }
    for _, h := range holds {
        if h.Expired(now) {
            return nil, ErrHoldExpired
        }
    }

    bookings, err := build(holds)
    if err != nil {
        return nil, err
    }

    intervals := make([]batch.Interval, 0, len(bookings))
    from, to := bookings[0].StartTimestamp, bookings[0].BufferEndTimestamp
    for _, b := range bookings {
        intervals = append(intervals, batch.Interval{
            Start: b.StartTimestamp, End: b.EndTimestamp, BufferEnd: b.BufferEndTimestamp,
        })
        if b.StartTimestamp.Before(from) {
            from = b.StartTimestamp
        }
        if b.BufferEndTimestamp.After(to) {
            to = b.BufferEndTimestamp
        }
    }
    otherHolds, err := s.holds.ActiveByCabinRangeTx(ctx, tx, cabinID, from, to, now)
    if err != nil {
        return nil, err
    }
    otherBookings, err := s.bookings.ConfirmedByCabinRangeTx(ctx, tx, cabinID, from, to)
    if err != nil {
        return nil, err
    }
    if model.HasConflict(intervals, otherHolds, otherBookings, groupID, now) {
        return nil, ErrConflictOnConfirm
    }

    ids := make([]uint64, 0, len(bookings))
    for i := range bookings {
        if err := s.bookings.CreateTx(ctx, tx, &bookings[i]); err != nil {
            return nil, err
        }
        ids = append(ids, bookings[i].ID)
    }
    // Insert-then-release: the holds go away only after the bookings are
    // durably written in the same transaction.
    if err := s.holds.DeleteGroupTx(ctx, tx, groupID); err != nil {
        return nil, err
    }
    if err := s.cabins.RefreshStatusTx(ctx, tx, cabinID, now); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return ids, nil
}

// DeleteExpiredHolds sweeps every hold past its TTL and refreshes the
// cached status of the affected cabins.  Correctness never depends on
// this running; it exists to keep the table small and to emit expiry
// events from the returned rows.
func (s *Store) DeleteExpiredHolds(ctx context.Context, now time.Time) ([]model.Hold, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    expired, err := s.holds.ExpiredTx(ctx, tx, now)
    if err != nil {
        return nil, err
    }
    seen := make(map[uint64]struct{})
    for _, h := range expired {
        if _, ok := seen[h.CabinID]; ok {
            continue
        }
        seen[h.CabinID] = struct{}{}
        if err := s.cabins.RefreshStatusTx(ctx, tx, h.CabinID, now); err != nil {
            return nil, err
        }
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return expired, nil
}

// CancelBookingGroup cancels a user's booking group and refreshes the
// cabin status cache.
func (s *Store) CancelBookingGroup(ctx context.Context, groupID string, userID uint64, now time.Time) (int64, error) {
    cabinID, err := s.bookings.GroupCabinForUser(ctx, groupID, userID)
    if err != nil {
        return 0, err
    }
    n, err := s.bookings.CancelGroupForUser(ctx, groupID, userID)
    if err != nil {
        return 0, err
    }
    if err := s.refreshCabin(ctx, cabinID, now); err != nil {
        return n, err
    }
    return n, nil
}

func (s *Store) refreshCabin(ctx context.Context, cabinID uint64, now time.Time) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    if err := s.cabins.RefreshStatusTx(ctx, tx, cabinID, now); err != nil {
        _ = tx.Rollback()
        return err
    }
    return tx.Commit()
}
