package bookings

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"shareit-backend/internal/platform/apperr"
	"shareit-backend/internal/platform/pagex"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type BookingStore interface {
	Insert(ctx context.Context, b *Booking) error
	GetDetail(ctx context.Context, id int64) (*BookingDetail, error)
	GetItemRef(ctx context.Context, itemID int64) (*ItemRef, error)
	GetUserRef(ctx context.Context, userID int64) (*UserRef, error)
	InTx(ctx context.Context, fn func(tx Tx) error) error
	ListByBooker(ctx context.Context, bookerID int64, st State, now time.Time, limit, offset int) ([]BookingDetail, error)
	ListByOwner(ctx context.Context, ownerID int64, st State, now time.Time, limit, offset int) ([]BookingDetail, error)
}

type Service struct {
	store BookingStore
	clock Clock
	log   *zap.Logger
}

func NewService(db *sql.DB, log *zap.Logger) *Service {
	return &Service{store: NewStore(db), clock: realClock{}, log: log}
}

// Create validates the window, resolves the referenced entities and persists
// a WAITING booking. The owner of an item cannot book it, and the refusal is
// a NOT_FOUND so the check leaks nothing about item ownership.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest, userID int64) (*BookingResponse, error) {
	if req.Start == nil || req.End == nil {
		return nil, apperr.BadRequest("start and end are required")
	}
	now := s.clock.Now()
	start, end := req.Start.UTC(), req.End.UTC()
	if start.Before(now) || end.Before(now) {
		return nil, apperr.BadRequest("booking dates must not be in the past")
	}
	if !end.After(start) {
		return nil, apperr.BadRequest("booking end must be after start")
	}

	item, err := s.store.GetItemRef(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == userID {
		return nil, apperr.NotFound("booking not possible")
	}
	booker, err := s.store.GetUserRef(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, apperr.BadRequest("item is not available for booking")
	}

	b := &Booking{
		Start:    start,
		End:      end,
		ItemID:   item.ID,
		BookerID: booker.ID,
		Status:   StatusWaiting,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("booking created", zap.Int64("id", b.ID), zap.Int64("item", item.ID), zap.Int64("booker", booker.ID))

	resp := toResponse(&BookingDetail{
		Booking:     *b,
		ItemName:    item.Name,
		ItemOwnerID: item.OwnerID,
		BookerName:  booker.Name,
	})
	return &resp, nil
}

// UpdateApprove drives the WAITING -> APPROVED / REJECTED transition. Only
// the item's owner may call it; repeating the current terminal state is a
// BAD_REQUEST, but the opposite terminal state stays reachable.
func (s *Service) UpdateApprove(ctx context.Context, bookingID int64, approved bool, userID int64) (*BookingResponse, error) {
	var resp BookingResponse
	err := s.store.InTx(ctx, func(tx Tx) error {
		d, err := tx.GetDetailForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if d.ItemOwnerID != userID {
			return apperr.NotFound("only the item owner may change the booking status")
		}
		var next Status
		if approved {
			if d.Status == StatusApproved {
				return apperr.BadRequest("booking status is already APPROVED")
			}
			next = StatusApproved
		} else {
			if d.Status == StatusRejected {
				return apperr.BadRequest("booking status is already REJECTED")
			}
			next = StatusRejected
		}
		if err := tx.UpdateStatus(ctx, d.ID, next); err != nil {
			return err
		}
		d.Status = next
		resp = toResponse(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("booking status changed", zap.Int64("id", bookingID), zap.String("status", string(resp.Status)))
	return &resp, nil
}

// GetByID is visible to exactly the booker and the item's owner.
func (s *Service) GetByID(ctx context.Context, bookingID, userID int64) (*BookingResponse, error) {
	d, err := s.store.GetDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if d.BookerID != userID && d.ItemOwnerID != userID {
		return nil, apperr.NotFound("booking is visible only to the booker and the item owner")
	}
	resp := toResponse(d)
	return &resp, nil
}

func (s *Service) GetAllByState(ctx context.Context, userID int64, st State, from, size int) ([]BookingResponse, error) {
	if _, err := s.store.GetUserRef(ctx, userID); err != nil {
		return nil, err
	}
	page, err := pagex.New(from, size)
	if err != nil {
		return nil, err
	}
	ds, err := s.store.ListByBooker(ctx, userID, st, s.clock.Now(), page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	return toResponses(ds), nil
}

func (s *Service) GetAllByOwner(ctx context.Context, userID int64, st State, from, size int) ([]BookingResponse, error) {
	if _, err := s.store.GetUserRef(ctx, userID); err != nil {
		return nil, err
	}
	page, err := pagex.New(from, size)
	if err != nil {
		return nil, err
	}
	ds, err := s.store.ListByOwner(ctx, userID, st, s.clock.Now(), page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	return toResponses(ds), nil
}

func toResponses(ds []BookingDetail) []BookingResponse {
	out := make([]BookingResponse, 0, len(ds))
	for i := range ds {
		out = append(out, toResponse(&ds[i]))
	}
	return out
}
