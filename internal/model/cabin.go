package model

import "time"

// CabinStatus enumerates the cached states of a cabin.  The stored status
// is a derived summary of the authoritative hold and booking records for
// "now"; it is refreshed after every mutation and must never be treated
// as the source of truth for conflict decisions.
type CabinStatus string

const (
    CabinAvailable CabinStatus = "available"
    CabinOnHold    CabinStatus = "on_hold"
    CabinOccupied  CabinStatus = "occupied"
)

// Cabin describes a bookable physical study seat.  Cabins are provisioned
// out of band and never deleted during normal operation; only the hold
// manager and booking confirmer mutate the cached status.
//
// Fields:
//  ID          – primary key identifier.
//  CabinNumber – display number shown to users.
//  Status      – cached availability summary (see CabinStatus).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Cabin struct {
    ID          uint64      // cabins.id
    CabinNumber string      // cabins.cabin_number
    Status      CabinStatus // cabins.status
    CreatedAt   time.Time   // cabins.created_at
    UpdatedAt   time.Time   // cabins.updated_at
}
