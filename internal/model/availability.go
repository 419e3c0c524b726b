package model

import (
    "time"

    "github.com/studynest/cabin-booking/internal/batch"
)

// BatchSlotStatus is the projected state of one batch on one day.
type BatchSlotStatus string

const (
    SlotAvailable BatchSlotStatus = "available"
    SlotBooked    BatchSlotStatus = "booked"
    SlotHeld      BatchSlotStatus = "held"
)

// BatchSlot is one row of the availability view: a canonical batch on a
// specific cabin and date, with its projected status.  BookingID and
// IsOwn are populated only when a confirmed booking covers the batch.
type BatchSlot struct {
    BatchType batch.Type      `json:"batch_type"`
    StartTime time.Time       `json:"start_time"`
    EndTime   time.Time       `json:"end_time"`
    Status    BatchSlotStatus `json:"status"`
    BookingID uint64          `json:"booking_id,omitempty"`
    IsOwn     bool            `json:"is_own"`
}

// DayAvailability is the read-only projection of one cabin's day: the
// four batch slots in canonical order plus summary counts.  It is never
// persisted; it is recomputed on demand from hold and booking records.
type DayAvailability struct {
    CabinID        uint64      `json:"cabin_id"`
    Date           string      `json:"date"`
    Batches        []BatchSlot `json:"batches"`
    TotalAvailable int         `json:"total_available"`
    TotalBooked    int         `json:"total_booked"`
}
