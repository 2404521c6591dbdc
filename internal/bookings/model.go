package bookings

import "time"

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking is one row of the bookings table.
type Booking struct {
	ID       int64
	Start    time.Time
	End      time.Time
	ItemID   int64
	BookerID int64
	Status   Status
}

// BookingDetail is a booking joined with the fields the views need.
type BookingDetail struct {
	Booking
	ItemName    string
	ItemOwnerID int64
	BookerName  string
}

// ItemRef is the slice of an item the ledger cares about.
type ItemRef struct {
	ID        int64
	Name      string
	OwnerID   int64
	Available bool
}

type UserRef struct {
	ID   int64
	Name string
}
