package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/studynest/cabin-booking/internal/model"
)

// HoldRepo provides data access to the booking_holds table.  It creates,
// lists and deletes hold rows; admission (conflict checking) is the
// Store's job because it must happen under the cabin row lock.  All
// timestamp comparisons are performed in UTC.
type HoldRepo struct {
    db *sql.DB
}

// NewHoldRepo returns a new HoldRepo bound to the provided database.
func NewHoldRepo(db *sql.DB) *HoldRepo { return &HoldRepo{db: db} }

const holdColumns = `id, group_id, cabin_id, user_id, batch_type,
    start_timestamp, end_timestamp, buffer_end_timestamp, held_until, created_at`

func scanHolds(rows *sql.Rows) ([]model.Hold, error) {
    defer rows.Close()
    var holds []model.Hold
    for rows.Next() {
        var h model.Hold
        if err := rows.Scan(&h.ID, &h.GroupID, &h.CabinID, &h.UserID, &h.BatchType,
            &h.StartTimestamp, &h.EndTimestamp, &h.BufferEndTimestamp, &h.HeldUntil, &h.CreatedAt); err != nil {
            return nil, err
        }
        holds = append(holds, h)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return holds, nil
}

// CreateGroupTx inserts all rows of one hold group in a single statement
// within the provided transaction.  Either every row is inserted or none;
// the caller must commit or roll back.  Passing an empty slice has no
// effect and returns nil.
func (r *HoldRepo) CreateGroupTx(ctx context.Context, tx *sql.Tx, holds []model.Hold) error {
    if len(holds) == 0 {
        return nil
    }
    query := `INSERT INTO booking_holds
        (group_id, cabin_id, user_id, batch_type, start_timestamp, end_timestamp, buffer_end_timestamp, held_until) VALUES `
    args := make([]interface{}, 0, len(holds)*8)
    for i, h := range holds {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?, ?, ?, ?)"
        args = append(args, h.GroupID, h.CabinID, h.UserID, h.BatchType,
            h.StartTimestamp, h.EndTimestamp, h.BufferEndTimestamp, h.HeldUntil)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// Group fetches all rows of a hold group, expired or not.  Expiry is a
// wall-clock predicate the caller applies; the rows' presence in the
// table means nothing by itself.
func (r *HoldRepo) Group(ctx context.Context, groupID string) ([]model.Hold, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+holdColumns+` FROM booking_holds WHERE group_id = ?`, groupID)
    if err != nil {
        return nil, err
    }
    return scanHolds(rows)
}

// GroupTx is Group within an existing transaction, locking the rows so a
// concurrent confirm or sweep cannot pull them away mid-confirmation.
func (r *HoldRepo) GroupTx(ctx context.Context, tx *sql.Tx, groupID string) ([]model.Hold, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT `+holdColumns+` FROM booking_holds WHERE group_id = ? FOR UPDATE`, groupID)
    if err != nil {
        return nil, err
    }
    return scanHolds(rows)
}

// ActiveByCabinRangeTx returns the unexpired holds on a cabin whose
// buffered interval intersects [from, to).  Used under the cabin lock to
// validate admission.
func (r *HoldRepo) ActiveByCabinRangeTx(ctx context.Context, tx *sql.Tx, cabinID uint64, from, to, now time.Time) ([]model.Hold, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT `+holdColumns+` FROM booking_holds
         WHERE cabin_id = ? AND start_timestamp < ? AND buffer_end_timestamp > ? AND held_until >= ?`,
        cabinID, to, from, now)
    if err != nil {
        return nil, err
    }
    return scanHolds(rows)
}

// ActiveByCabinRange is the read-only variant used by availability and
// the recurrence scanner: one range query, never one query per day.
func (r *HoldRepo) ActiveByCabinRange(ctx context.Context, cabinID uint64, from, to, now time.Time) ([]model.Hold, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+holdColumns+` FROM booking_holds
         WHERE cabin_id = ? AND start_timestamp < ? AND buffer_end_timestamp > ? AND held_until >= ?`,
        cabinID, to, from, now)
    if err != nil {
        return nil, err
    }
    return scanHolds(rows)
}

// DeleteGroup removes all rows of a hold group.  Release is an idempotent
// best-effort cleanup: deleting an already-gone group succeeds and
// reports zero rows.
func (r *HoldRepo) DeleteGroup(ctx context.Context, groupID string) (int64, error) {
    res, err := r.db.ExecContext(ctx, `DELETE FROM booking_holds WHERE group_id = ?`, groupID)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// DeleteGroupTx removes the group's rows within an existing transaction.
func (r *HoldRepo) DeleteGroupTx(ctx context.Context, tx *sql.Tx, groupID string) error {
    _, err := tx.ExecContext(ctx, `DELETE FROM booking_holds WHERE group_id = ?`, groupID)
    return err
}

// ExpiredTx returns and deletes every hold row whose held_until has
// passed.  The sweep exists for hygiene only (every consumer already
// treats expired rows as absent), but the deleted rows are returned so
// the caller can refresh cabin status caches and emit expiry events.
func (r *HoldRepo) ExpiredTx(ctx context.Context, tx *sql.Tx, now time.Time) ([]model.Hold, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT `+holdColumns+` FROM booking_holds WHERE held_until < ? FOR UPDATE`, now)
    if err != nil {
        return nil, err
    }
    expired, err := scanHolds(rows)
    if err != nil {
        return nil, err
    }
    if len(expired) == 0 {
        return nil, nil
    }
    if _, err := tx.ExecContext(ctx, `DELETE FROM booking_holds WHERE held_until < ?`, now); err != nil {
        return nil, err
    }
    return expired, nil
}
