package service

import (
    "time"

    "github.com/studynest/cabin-booking/internal/batch"
    "github.com/studynest/cabin-booking/internal/model"
)

// computeDayAvailability projects hold and booking rows onto the four
// canonical batches of one day.  A confirmed booking always outranks a
// hold; by construction a hold cannot exist where a booking does, so the
// ordering here is a consistency guard rather than a real tie-break.
// Expired holds are invisible whether or not the sweeper has deleted them.
// Pure: callers fetch the rows, this function only decides.
func computeDayAvailability(cabinID uint64, day time.Time, holds []model.Hold, bookings []model.Booking, now time.Time, callerID uint64) *model.DayAvailability {
    out := &model.DayAvailability{
        CabinID: cabinID,
        Date:    day.Format("2006-01-02"),
        Batches: make([]model.BatchSlot, 0, len(batch.Order)),
    }
    for _, t := range batch.Order {
        iv := batch.IntervalOn(t, day)
        slot := model.BatchSlot{
            BatchType: t,
            StartTime: iv.Start,
            EndTime:   iv.End,
            Status:    model.SlotAvailable,
        }
        for _, b := range bookings {
            if b.Status != model.BookingConfirmed {
                continue
            }
            if iv.Overlaps(b.StartTimestamp, b.BufferEndTimestamp) {
                slot.Status = model.SlotBooked
                slot.BookingID = b.ID
                slot.IsOwn = callerID != 0 && b.UserID == callerID
                break
            }
        }
        if slot.Status == model.SlotAvailable {
            for _, h := range holds {
                if h.Expired(now) {
                    continue
                }
                if iv.Overlaps(h.StartTimestamp, h.BufferEndTimestamp) {
                    slot.Status = model.SlotHeld
                    slot.IsOwn = callerID != 0 && h.UserID == callerID
                    break
                }
            }
        }
        switch slot.Status {
        case model.SlotAvailable:
            out.TotalAvailable++
        case model.SlotBooked:
            out.TotalBooked++
        }
        out.Batches = append(out.Batches, slot)
    }
    return out
}
