package model

import (
    "time"

    "github.com/studynest/cabin-booking/internal/batch"
)

// BookingMode distinguishes a single-day reservation from a 30-day
// recurring pass.
type BookingMode string

const (
    ModeDaily   BookingMode = "daily"
    ModeMonthly BookingMode = "monthly"
)

// SlotType classifies a booking by the total hours it covers.  Derived
// from the batch count at confirmation time.
type SlotType string

const (
    SlotFourHours  SlotType = "four_hours"
    SlotEightHours SlotType = "eight_hours"
    SlotFullDay    SlotType = "full_day"
    SlotMonthly    SlotType = "monthly"
)

// BookingStatus enumerates the stored states of a booking.  "Completed"
// is derived (confirmed with EndTimestamp in the past), never stored.
type BookingStatus string

const (
    BookingConfirmed BookingStatus = "confirmed"
    BookingCancelled BookingStatus = "cancelled"
)

// Booking is a durable confirmed reservation.  Like holds, one row is
// created per claimed batch, all sharing the GroupID carried over from
// the hold that produced them.  For monthly bookings each row's interval
// stretches from the start date to thirty days later, so a single range
// comparison covers the whole recurrence.
//
// Fields:
//  ID                 – primary key identifier.
//  GroupID            – UUID inherited from the originating hold group.
//  CabinID            – reserved cabin.
//  UserID             – owner of the reservation.
//  BatchType          – canonical batch this row covers.
//  BookingType        – daily or monthly mode.
//  SlotType           – derived classification by total hours.
//  Status             – confirmed or cancelled.
//  Amount             – price share of this row in rupees.
//  HasLocker          – whether the locker add-on was taken.
//  StartTimestamp     – start of the reserved interval.
//  EndTimestamp       – end of the reserved interval.
//  BufferEndTimestamp – EndTimestamp plus the turnover buffer.
//  BookingDate        – the (start) calendar date, for display queries.
//  CreatedAt          – creation timestamp.
type Booking struct {
    ID                 uint64        // bookings.id
    GroupID            string        // bookings.group_id
    CabinID            uint64        // bookings.cabin_id
    UserID             uint64        // bookings.user_id
    BatchType          batch.Type    // bookings.batch_type
    BookingType        BookingMode   // bookings.booking_type
    SlotType           SlotType      // bookings.slot_type
    Status             BookingStatus // bookings.status
    Amount             uint32        // bookings.amount
    HasLocker          bool          // bookings.has_locker
    StartTimestamp     time.Time     // bookings.start_timestamp
    EndTimestamp       time.Time     // bookings.end_timestamp
    BufferEndTimestamp time.Time     // bookings.buffer_end_timestamp
    BookingDate        time.Time     // bookings.booking_date
    CreatedAt          time.Time     // bookings.created_at
}

// Completed reports the derived terminal state: a confirmed booking whose
// end has passed.
func (b Booking) Completed(now time.Time) bool {
    return b.Status == BookingConfirmed && b.EndTimestamp.Before(now)
}
