package repository // repository holds data access logic for domain entities

import (
    "context"
    "database/sql"
    "time"

    "github.com/studynest/cabin-booking/internal/model"
)

// CabinRepo provides methods to work with cabins in the database.  The
// status column it maintains is a cached summary derived from hold and
// booking rows; conflict decisions never read it.
type CabinRepo struct {
    db *sql.DB
}

// NewCabinRepo constructs a CabinRepo with the given DB handle.
func NewCabinRepo(db *sql.DB) *CabinRepo {
    return &CabinRepo{db: db}
}

// DB exposes the underlying handle so callers can open transactions that
// span several repositories.
func (r *CabinRepo) DB() *sql.DB { return r.db }

// List returns all cabins ordered by display number.
func (r *CabinRepo) List(ctx context.Context) ([]model.Cabin, error) {
    const q = `SELECT id, cabin_number, status, created_at, updated_at
               FROM cabins ORDER BY cabin_number`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var cabins []model.Cabin
    for rows.Next() {
        var c model.Cabin
        if err := rows.Scan(&c.ID, &c.CabinNumber, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
            return nil, err
        }
        cabins = append(cabins, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return cabins, nil
}

// GetByID fetches a single cabin.  Returns ErrCabinNotFound when missing.
func (r *CabinRepo) GetByID(ctx context.Context, id uint64) (model.Cabin, error) {
    const q = `SELECT id, cabin_number, status, created_at, updated_at
               FROM cabins WHERE id = ? LIMIT 1`
    var c model.Cabin
    err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.CabinNumber, &c.Status, &c.CreatedAt, &c.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Cabin{}, ErrCabinNotFound
    }
    return c, err
}

// LockTx takes a row lock on the cabin inside the provided transaction.
// Hold creation and booking confirmation both lock the cabin row before
// their check-then-insert sequence, which serializes all writers per
// cabin without a global lock.  Returns ErrCabinNotFound for unknown ids.
func (r *CabinRepo) LockTx(ctx context.Context, tx *sql.Tx, cabinID uint64) error {
    var id uint64
    err := tx.QueryRowContext(ctx, `SELECT id FROM cabins WHERE id = ? FOR UPDATE`, cabinID).Scan(&id)
    if err == sql.ErrNoRows {
        return ErrCabinNotFound
    }
    return err
}

// RefreshStatusTx recomputes the cached cabin status from the
// authoritative hold and booking rows at the given instant: occupied when
// a confirmed booking covers now, on_hold when any unexpired hold exists,
// otherwise available.  Called after every mutation within the same
// transaction so the cache can never be the last writer standing.
func (r *CabinRepo) RefreshStatusTx(ctx context.Context, tx *sql.Tx, cabinID uint64, now time.Time) error {
    var occupied bool
    err := tx.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM bookings
                       WHERE cabin_id = ? AND status = 'confirmed'
                         AND start_timestamp <= ? AND end_timestamp > ?)`,
        cabinID, now, now).Scan(&occupied)
    if err != nil {
        return err
    }
    status := model.CabinAvailable
    if occupied {
        status = model.CabinOccupied
    } else {
        var held bool
        err = tx.QueryRowContext(ctx,
            `SELECT EXISTS(SELECT 1 FROM booking_holds WHERE cabin_id = ? AND held_until >= ?)`,
            cabinID, now).Scan(&held)
        if err != nil {
            return err
        }
        if held {
            status = model.CabinOnHold
        }
    }
    _, err = tx.ExecContext(ctx, `UPDATE cabins SET status = ? WHERE id = ?`, status, cabinID)
    return err
}
