package requests

import "time"

// ItemRequest is one row of the requests table.
type ItemRequest struct {
	ID          int64
	Description string
	RequestorID int64
	Created     time.Time
}

// LinkedItem is an item row that declares it fulfills a request.
type LinkedItem struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	RequestID   int64
}
