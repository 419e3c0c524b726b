package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/studynest/cabin-booking/internal/model"
)

// BookingRepo provides CRUD operations for confirmed bookings.  One row
// exists per claimed batch; rows created from the same hold share a
// group_id.  All timestamp fields are stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, group_id, cabin_id, user_id, batch_type, booking_type,
    slot_type, status, amount, has_locker, start_timestamp, end_timestamp,
    buffer_end_timestamp, booking_date, created_at`

func scanBookings(rows *sql.Rows) ([]model.Booking, error) {
    defer rows.Close()
    var bookings []model.Booking
    for rows.Next() {
        var b model.Booking
        if err := rows.Scan(&b.ID, &b.GroupID, &b.CabinID, &b.UserID, &b.BatchType, &b.BookingType,
            &b.SlotType, &b.Status, &b.Amount, &b.HasLocker, &b.StartTimestamp, &b.EndTimestamp,
            &b.BufferEndTimestamp, &b.BookingDate, &b.CreatedAt); err != nil {
            return nil, err
        }
        bookings = append(bookings, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return bookings, nil
}

// CreateTx inserts a single booking row within the provided transaction
// and populates its generated ID.  Rows are inserted one at a time so
// each ID can be read back reliably.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings
        (group_id, cabin_id, user_id, batch_type, booking_type, slot_type, status, amount,
         has_locker, start_timestamp, end_timestamp, buffer_end_timestamp, booking_date)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, b.GroupID, b.CabinID, b.UserID, b.BatchType, b.BookingType,
        b.SlotType, b.Status, b.Amount, b.HasLocker, b.StartTimestamp, b.EndTimestamp,
        b.BufferEndTimestamp, b.BookingDate)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

// ConfirmedByCabinRangeTx returns the confirmed bookings on a cabin whose
// buffered interval intersects [from, to), within an existing transaction.
func (r *BookingRepo) ConfirmedByCabinRangeTx(ctx context.Context, tx *sql.Tx, cabinID uint64, from, to time.Time) ([]model.Booking, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings
         WHERE cabin_id = ? AND status = 'confirmed'
           AND start_timestamp < ? AND buffer_end_timestamp > ?`,
        cabinID, to, from)
    if err != nil {
        return nil, err
    }
    return scanBookings(rows)
}

// ConfirmedByCabinRange is the read-only variant for availability views
// and the recurrence scanner's single range query.
func (r *BookingRepo) ConfirmedByCabinRange(ctx context.Context, cabinID uint64, from, to time.Time) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings
         WHERE cabin_id = ? AND status = 'confirmed'
           AND start_timestamp < ? AND buffer_end_timestamp > ?`,
        cabinID, to, from)
    if err != nil {
        return nil, err
    }
    return scanBookings(rows)
}

// ListByUser returns all of a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`,
        userID)
    if err != nil {
        return nil, err
    }
    return scanBookings(rows)
}

// GroupCabinForUser returns the cabin a booking group belongs to, scoped
// to the owning user.  Returns ErrBookingNotFound when no row matches.
func (r *BookingRepo) GroupCabinForUser(ctx context.Context, groupID string, userID uint64) (uint64, error) {
    var cabinID uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT cabin_id FROM bookings WHERE group_id = ? AND user_id = ? LIMIT 1`,
        groupID, userID).Scan(&cabinID)
    if err == sql.ErrNoRows {
        return 0, ErrBookingNotFound
    }
    return cabinID, err
}

// CancelGroupForUser marks every confirmed row of a booking group as
// cancelled, provided the group belongs to the given user.  Returns
// ErrBookingNotFound when nothing matched.
func (r *BookingRepo) CancelGroupForUser(ctx context.Context, groupID string, userID uint64) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE bookings SET status = 'cancelled'
         WHERE group_id = ? AND user_id = ? AND status = 'confirmed'`,
        groupID, userID)
    if err != nil {
        return 0, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return 0, err
    }
    if n == 0 {
        return 0, ErrBookingNotFound
    }
    return n, nil
}
