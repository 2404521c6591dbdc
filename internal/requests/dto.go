package requests

import "time"

type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

type LinkedItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   int64  `json:"requestId"`
}

type RequestResponse struct {
	ID          int64                `json:"id"`
	Description string               `json:"description"`
	Created     time.Time            `json:"created"`
	Items       []LinkedItemResponse `json:"items"`
}

func toResponse(r *ItemRequest) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       []LinkedItemResponse{},
	}
}

func toLinkedItemResponse(it *LinkedItem) LinkedItemResponse {
	return LinkedItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
	}
}
