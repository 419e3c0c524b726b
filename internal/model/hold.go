package model

import (
    "time"

    "github.com/studynest/cabin-booking/internal/batch"
)

// Hold is a time-boxed exclusive claim on one (cabin, batch, day) tuple.
// A multi-batch selection produces one Hold row per batch, all sharing a
// GroupID so the claim can be released or confirmed as a unit.  Rows of
// the same group are one logical claim and are never overlap-checked
// against each other.
//
// A hold is logically expired the instant now > HeldUntil, whether or not
// its row has been deleted yet.  Every consumer that checks conflicts or
// renders availability must treat expired rows as absent; the periodic
// sweeper removes them for hygiene only.
//
// Fields:
//  ID                 – primary key identifier.
//  GroupID            – UUID shared by all rows of one claim.
//  CabinID            – cabin being claimed.
//  UserID             – owner of the claim.
//  BatchType          – which canonical batch this row covers.
//  StartTimestamp     – start of the claimed interval.
//  EndTimestamp       – end of the claimed interval.
//  BufferEndTimestamp – EndTimestamp plus the 15-minute turnover buffer.
//  HeldUntil          – creation time plus the 15-minute hold TTL.
//  CreatedAt          – when the hold was created.
type Hold struct {
    ID                 uint64     // booking_holds.id
    GroupID            string     // booking_holds.group_id
    CabinID            uint64     // booking_holds.cabin_id
    UserID             uint64     // booking_holds.user_id
    BatchType          batch.Type // booking_holds.batch_type
    StartTimestamp     time.Time  // booking_holds.start_timestamp
    EndTimestamp       time.Time  // booking_holds.end_timestamp
    BufferEndTimestamp time.Time  // booking_holds.buffer_end_timestamp
    HeldUntil          time.Time  // booking_holds.held_until
    CreatedAt          time.Time  // booking_holds.created_at
}

// Expired reports whether the hold is logically gone at the given instant.
func (h Hold) Expired(now time.Time) bool {
    return now.After(h.HeldUntil)
}
