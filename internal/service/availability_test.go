package service

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"

    "github.com/studynest/cabin-booking/internal/batch"
    "github.com/studynest/cabin-booking/internal/model"
)

func TestComputeDayAvailabilityPrecedence(t *testing.T) {
    day := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
    now := day.Add(5 * time.Hour)

    morning := batch.IntervalOn(batch.Morning, day)
    booking := model.Booking{
        ID:                 7,
        GroupID:            "g-booked",
        CabinID:            testCabin,
        UserID:             userAlice,
        BatchType:          batch.Morning,
        Status:             model.BookingConfirmed,
        StartTimestamp:     morning.Start,
        EndTimestamp:       morning.End,
        BufferEndTimestamp: morning.BufferEnd,
    }
    // A hold on the same batch must lose to the confirmed booking.
    hold := model.Hold{
        GroupID:            "g-held",
        CabinID:            testCabin,
        UserID:             userBob,
        BatchType:          batch.Morning,
        StartTimestamp:     morning.Start,
        EndTimestamp:       morning.End,
        BufferEndTimestamp: morning.BufferEnd,
        HeldUntil:          now.Add(10 * time.Minute),
    }
    evening := batch.IntervalOn(batch.Evening, day)
    eveningHold := model.Hold{
        GroupID:            "g-evening",
        CabinID:            testCabin,
        UserID:             userBob,
        BatchType:          batch.Evening,
        StartTimestamp:     evening.Start,
        EndTimestamp:       evening.End,
        BufferEndTimestamp: evening.BufferEnd,
        HeldUntil:          now.Add(10 * time.Minute),
    }

    out := computeDayAvailability(testCabin, day,
        []model.Hold{hold, eveningHold}, []model.Booking{booking}, now, userAlice)

    assert.Equal(t, model.SlotBooked, out.Batches[0].Status)
    assert.EqualValues(t, 7, out.Batches[0].BookingID)
    assert.True(t, out.Batches[0].IsOwn)
    // The morning booking's turnover buffer reaches into mid_day, so that
    // batch reads as booked too, matching what a hold attempt would hit.
    assert.Equal(t, model.SlotBooked, out.Batches[1].Status)
    assert.Equal(t, model.SlotHeld, out.Batches[3].Status)
    assert.False(t, out.Batches[3].IsOwn)
    assert.Equal(t, 2, out.TotalBooked)
}

func TestComputeDayAvailabilityCancelledAndExpiredIgnored(t *testing.T) {
    day := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
    now := day.Add(5 * time.Hour)

    morning := batch.IntervalOn(batch.Morning, day)
    cancelled := model.Booking{
        GroupID:            "g-cancelled",
        CabinID:            testCabin,
        BatchType:          batch.Morning,
        Status:             model.BookingCancelled,
        StartTimestamp:     morning.Start,
        EndTimestamp:       morning.End,
        BufferEndTimestamp: morning.BufferEnd,
    }
    expired := model.Hold{
        GroupID:            "g-lapsed",
        CabinID:            testCabin,
        BatchType:          batch.Morning,
        StartTimestamp:     morning.Start,
        EndTimestamp:       morning.End,
        BufferEndTimestamp: morning.BufferEnd,
        HeldUntil:          now.Add(-time.Minute),
    }

    out := computeDayAvailability(testCabin, day,
        []model.Hold{expired}, []model.Booking{cancelled}, now, 0)

    assert.Equal(t, model.SlotAvailable, out.Batches[0].Status)
    assert.Equal(t, 4, out.TotalAvailable)
}
