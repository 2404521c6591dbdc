package bookings

import "time"

type CreateBookingRequest struct {
	ItemID int64      `json:"itemId" binding:"required"`
	Start  *time.Time `json:"start" binding:"required"`
	End    *time.Time `json:"end" binding:"required"`
}

type ItemShortResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserShortResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64             `json:"id"`
	Start  time.Time         `json:"start"`
	End    time.Time         `json:"end"`
	Status Status            `json:"status"`
	Item   ItemShortResponse `json:"item"`
	Booker UserShortResponse `json:"booker"`
}

func toResponse(d *BookingDetail) BookingResponse {
	return BookingResponse{
		ID:     d.ID,
		Start:  d.Start,
		End:    d.End,
		Status: d.Status,
		Item:   ItemShortResponse{ID: d.ItemID, Name: d.ItemName},
		Booker: UserShortResponse{ID: d.BookerID, Name: d.BookerName},
	}
}
