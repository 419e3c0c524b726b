// Package queue defines the broker event payloads, the publisher the
// reservation core emits through, and the background consumer that
// appends events to logs/booking.log.
package queue

// BookingConfirmedEvent is published when a hold is successfully converted
// into a confirmed booking.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type BookingConfirmedEvent struct {
    GroupID     string   `json:"group_id"`
    BookingIDs  []uint64 `json:"booking_ids"`
    UserID      uint64   `json:"user_id"`
    CabinID     uint64   `json:"cabin_id"`
    BookingType string   `json:"booking_type"`
    SlotType    string   `json:"slot_type"`
    Batches     []string `json:"batches"`
    HasLocker   bool     `json:"has_locker"`
    TotalAmount uint32   `json:"total_amount"`
    ConfirmedAt string   `json:"confirmed_at"`
}

// HoldExpiredEvent is published by the sweeper when a hold group lapses
// without being confirmed or released.  Notification layers use it to
// tell the user their slot selection timed out.
type HoldExpiredEvent struct {
    GroupID   string   `json:"group_id"`
    UserID    uint64   `json:"user_id"`
    CabinID   uint64   `json:"cabin_id"`
    Batches   []string `json:"batches"`
    HeldUntil string   `json:"held_until"`
    ExpiredAt string   `json:"expired_at"`
}
