package items

import (
	"database/sql"
	"time"
)

// Item is one row of the items table.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   sql.NullInt64
}

// Comment is one row of the comments table, joined with the author name.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Created    time.Time
}

// ApprovedBooking is the slice of a booking the last/next annotation needs.
type ApprovedBooking struct {
	ID       int64
	ItemID   int64
	BookerID int64
	Start    time.Time
	End      time.Time
}
