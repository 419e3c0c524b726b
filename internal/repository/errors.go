// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios with
// errors.Is: a slot taken by someone else, a hold that ran out of time,
// and a conflict that slipped in between hold validation and booking
// insert are all surfaced differently to the user.
package repository

import "errors"

// ErrCabinNotFound is returned when a cabin lookup yields no rows.
var ErrCabinNotFound = errors.New("cabin not found")

// ErrSlotUnavailable is returned when a hold request overlaps an existing
// unexpired hold or confirmed booking on the same cabin. Handlers should
// translate this into an HTTP 409 response; the user must re-select.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrHoldNotFound is returned when a hold group lookup yields no rows.
var ErrHoldNotFound = errors.New("hold not found")

// ErrHoldExpired is returned when confirmation is attempted after the
// hold's TTL has lapsed. Surfaced distinctly from ErrSlotUnavailable so
// the user understands they ran out of time rather than lost a race.
var ErrHoldExpired = errors.New("hold expired")

// ErrConflictOnConfirm is returned when a conflicting booking appeared
// between hold validation and booking insert. Fatal to this attempt; the
// user must restart slot selection.
var ErrConflictOnConfirm = errors.New("conflicting booking on confirm")

// ErrBookingNotFound is returned when a booking lookup yields no rows for
// the requesting user.
var ErrBookingNotFound = errors.New("booking not found")
