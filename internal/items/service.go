package items

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

type ItemStore interface {
	EnsureUser(ctx context.Context, userID int64) error
	EnsureRequest(ctx context.Context, requestID int64) error
	GetAuthorName(ctx context.Context, userID int64) (string, error)
	Insert(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, it *Item) error
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]Item, error)
	Search(ctx context.Context, text string, limit, offset int) ([]Item, error)
	ApprovedBookings(ctx context.Context, itemIDs []int64) ([]ApprovedBooking, error)
	CommentsByItem(ctx context.Context, itemID int64) ([]Comment, error)
	HasCompletedBooking(ctx context.Context, userID, itemID int64, now time.Time) (bool, error)
	InsertComment(ctx context.Context, cm *Comment) error
}

type Service struct {
	store ItemStore
	clock Clock
	log   *zap.Logger
}

func NewService(db *sql.DB, log *zap.Logger) *Service {
	return &Service{store: NewStore(db), clock: realClock{}, log: log}
}

// Create persists a new item owned by the caller. A requestId pointing to a
// nonexistent request is a NOT_FOUND: silently creating placeholder requests
// would leave rows without a requestor or created timestamp.
func (s *Service) Create(ctx context.Context, req CreateItemRequest, userID int64) (*ItemResponse, error) {
	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}
	it := &Item{
		Name:        req.Name,
		Description: *req.Description,
		Available:   *req.Available,
		OwnerID:     userID,
	}
	if req.RequestID != nil {
		if err := s.store.EnsureRequest(ctx, *req.RequestID); err != nil {
			return nil, err
		}
		it.RequestID = sql.NullInt64{Int64: *req.RequestID, Valid: true}
	}
	if err := s.store.Insert(ctx, it); err != nil {
		return nil, err
	}
	s.log.Info("item created", zap.Int64("id", it.ID), zap.String("name", it.Name))
	resp := toResponse(it)
	return &resp, nil
}

// Update merges the non-nil patch fields. An ownership mismatch reads as
// NOT_FOUND so the caller learns nothing about foreign items.
func (s *Service) Update(ctx context.Context, req UpdateItemRequest, userID, itemID int64) (*ItemResponse, error) {
	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, apperr.NotFound("item not found")
	}
	applyPatch(it, req)
	if err := s.store.Update(ctx, it); err != nil {
		return nil, err
	}
	s.log.Info("item updated", zap.Int64("id", it.ID))
	resp := toResponse(it)
	return &resp, nil
}

// GetAll lists the caller's items, each annotated with its last/next
// approved booking and comments.
func (s *Service) GetAll(ctx context.Context, ownerID int64, from, size int) ([]ItemWithBookingsResponse, error) {
	page, err := pagex.New(from, size)
	if err != nil {
		return nil, err
	}
	its, err := s.store.ListByOwner(ctx, ownerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(its))
	for i := range its {
		ids = append(ids, its[i].ID)
	}
	bookings, err := s.store.ApprovedBookings(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]ItemWithBookingsResponse, 0, len(its))
	for i := range its {
		view := s.withDates(&its[i], bookings, now)
		if err := s.attachComments(ctx, &view); err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// GetByID returns the item view. Booking dates are the owner's privilege;
// other viewers get them as null. Comments are always included.
func (s *Service) GetByID(ctx context.Context, itemID, viewerID int64) (*ItemWithBookingsResponse, error) {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	var view ItemWithBookingsResponse
	if it.OwnerID == viewerID {
		bookings, err := s.store.ApprovedBookings(ctx, []int64{it.ID})
		if err != nil {
			return nil, err
		}
		view = s.withDates(it, bookings, s.clock.Now())
	} else {
		view = s.withDates(it, nil, s.clock.Now())
	}
	if err := s.attachComments(ctx, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Search is restricted to available items; the empty query short-circuits
// to an empty result instead of returning the whole catalog.
func (s *Service) Search(ctx context.Context, text string, from, size int) ([]ItemResponse, error) {
	page, err := pagex.New(from, size)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []ItemResponse{}, nil
	}
	its, err := s.store.Search(ctx, text, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, 0, len(its))
	for i := range its {
		out = append(out, toResponse(&its[i]))
	}
	return out, nil
}

// CreateComment lets a past booker leave a comment once their rental period
// has elapsed (booking end strictly before now).
func (s *Service) CreateComment(ctx context.Context, userID, itemID int64, req CreateCommentRequest) (*CommentResponse, error) {
	now := s.clock.Now()
	ok, err := s.store.HasCompletedBooking(ctx, userID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.BadRequest("user has no completed booking of this item")
	}
	authorName, err := s.store.GetAuthorName(ctx, userID)
	if err != nil {
		return nil, err
	}
	cm := &Comment{
		Text:       req.Text,
		ItemID:     itemID,
		AuthorID:   userID,
		AuthorName: authorName,
		Created:    now,
	}
	if err := s.store.InsertComment(ctx, cm); err != nil {
		return nil, err
	}
	s.log.Info("comment created", zap.Int64("item", itemID), zap.Int64("author", userID))
	resp := toCommentResponse(cm)
	return &resp, nil
}

// ---------- helpers ----------

func applyPatch(it *Item, patch UpdateItemRequest) {
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Available != nil {
		it.Available = *patch.Available
	}
}

// withDates picks the item's last booking (latest start not after now, ties
// broken by latest end) and next booking (earliest start after now) from the
// approved set.
func (s *Service) withDates(it *Item, bookings []ApprovedBooking, now time.Time) ItemWithBookingsResponse {
	view := ItemWithBookingsResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
	}

	var last, next *ApprovedBooking
	for i := range bookings {
		b := &bookings[i]
		if b.ItemID != it.ID {
			continue
		}
		if !b.Start.After(now) {
			if last == nil || b.Start.After(last.Start) ||
				(b.Start.Equal(last.Start) && b.End.After(last.End)) {
				last = b
			}
		} else if next == nil || b.Start.Before(next.Start) {
			next = b
		}
	}
	if last != nil {
		view.LastBooking = &BookingShortResponse{ID: last.ID, BookerID: last.BookerID}
	}
	if next != nil {
		view.NextBooking = &BookingShortResponse{ID: next.ID, BookerID: next.BookerID}
	}
	return view
}

func (s *Service) attachComments(ctx context.Context, view *ItemWithBookingsResponse) error {
	cms, err := s.store.CommentsByItem(ctx, view.ID)
	if err != nil {
		return err
	}
	view.Comments = make([]CommentResponse, 0, len(cms))
	for i := range cms {
		view.Comments = append(view.Comments, toCommentResponse(&cms[i]))
	}
	return nil
}
