package service

import (
    "github.com/studynest/cabin-booking/internal/batch"
    "github.com/studynest/cabin-booking/internal/model"
)

// Prices in rupees.  A batch is one 4-hour slot; the monthly rate covers
// the same slot across 30 consecutive days.  The locker add-on is a flat
// one-time charge per booking group.
const (
    DailyPricePerBatch   uint32 = 15
    MonthlyPricePerBatch uint32 = 300
    LockerPrice          uint32 = 100
)

// Quote computes the total price for a selection and its split across the
// per-batch booking rows.  The seat amount divides evenly across rows with
// any remainder on the first row, and the locker charge lands on the first
// row only, so the shares always sum exactly to the total.
func Quote(mode model.BookingMode, batchCount int, withLocker bool) (total uint32, shares []uint32) {
    perBatch := DailyPricePerBatch
    if mode == model.ModeMonthly {
        perBatch = MonthlyPricePerBatch
    }
    seat := perBatch * uint32(batchCount)

    shares = make([]uint32, batchCount)
    base := seat / uint32(batchCount)
    for i := range shares {
        shares[i] = base
    }
    shares[0] += seat % uint32(batchCount)

    total = seat
    if withLocker {
        shares[0] += LockerPrice
        total += LockerPrice
    }
    return total, shares
}

// SlotTypeFor classifies a booking by mode and total hours covered.
func SlotTypeFor(mode model.BookingMode, batchCount int) model.SlotType {
    if mode == model.ModeMonthly {
        return model.SlotMonthly
    }
    switch hours := batchCount * batch.HoursPerBatch; {
    case hours >= 12:
        return model.SlotFullDay
    case hours >= 8:
        return model.SlotEightHours
    default:
        return model.SlotFourHours
    }
}
