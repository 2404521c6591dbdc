package items

import "time"

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *int64  `json:"requestId"`
}

// UpdateItemRequest carries a partial update: nil fields keep the stored value.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// BookingShortResponse annotates an item view with a booking reference.
type BookingShortResponse struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type ItemWithBookingsResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Available   bool                  `json:"available"`
	LastBooking *BookingShortResponse `json:"lastBooking"`
	NextBooking *BookingShortResponse `json:"nextBooking"`
	Comments    []CommentResponse     `json:"comments"`
}

func toResponse(it *Item) ItemResponse {
	resp := ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
	}
	if it.RequestID.Valid {
		v := it.RequestID.Int64
		resp.RequestID = &v
	}
	return resp
}

func toCommentResponse(cm *Comment) CommentResponse {
	return CommentResponse{ID: cm.ID, Text: cm.Text, AuthorName: cm.AuthorName, Created: cm.Created}
}
