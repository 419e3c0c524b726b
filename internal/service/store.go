// Package service implements the reservation core: availability
// projection, the hold lifecycle, the 30-day recurrence conflict scan and
// hold-to-booking confirmation.  It talks to the transactional store and
// the message broker only through the narrow interfaces in this file, so
// the scheduling logic itself stays independent of MySQL and RabbitMQ.
package service

import (
    "context"
    "time"

    "github.com/studynest/cabin-booking/internal/model"
    "github.com/studynest/cabin-booking/internal/queue"
)

// Store is the external transactional store the core reads and writes
// through.  Implementations must provide the two atomicity guarantees the
// comments below call out; everything else is plain reads.
type Store interface {
    // CabinExists returns repository.ErrCabinNotFound for unknown ids.
    CabinExists(ctx context.Context, cabinID uint64) error

    // CreateHoldGroup inserts all rows of a hold group or none, and must
    // reject with repository.ErrSlotUnavailable when any row's buffered
    // interval overlaps an existing unexpired hold or confirmed booking
    // on the same cabin, evaluated atomically against concurrent callers.
    CreateHoldGroup(ctx context.Context, holds []model.Hold, now time.Time) error

    // HoldGroup returns the rows of a group, including expired ones; the
    // caller applies the expiry predicate.
    HoldGroup(ctx context.Context, groupID string) ([]model.Hold, error)

    // ReleaseHoldGroup idempotently deletes a group.  Releasing a group
    // that is already gone is not an error.
    ReleaseHoldGroup(ctx context.Context, groupID string, now time.Time) error

    // HoldsAndBookings returns the unexpired holds and confirmed bookings
    // on a cabin intersecting [from, to), one range query per table.
    HoldsAndBookings(ctx context.Context, cabinID uint64, from, to, now time.Time) ([]model.Hold, []model.Booking, error)

    // ConfirmHoldGroup atomically converts a live hold group into the
    // booking rows produced by build: expiry is re-checked under lock
    // (repository.ErrHoldExpired), conflicts that raced in fail the whole
    // operation (repository.ErrConflictOnConfirm), and the holds are
    // deleted only after the bookings are durably inserted.
    ConfirmHoldGroup(ctx context.Context, groupID string, now time.Time,
        build func(holds []model.Hold) ([]model.Booking, error)) ([]uint64, error)

    // DeleteExpiredHolds removes rows past their TTL and returns them.
    DeleteExpiredHolds(ctx context.Context, now time.Time) ([]model.Hold, error)
}

// Publisher delivers domain events to the message broker.  Failures are
// logged by implementations and never fail the originating request.
type Publisher interface {
    PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
    PublishHoldExpired(ctx context.Context, ev queue.HoldExpiredEvent) error
}
