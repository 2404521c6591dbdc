package requests

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"shareit-backend/internal/platform/pagex"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type RequestStore interface {
	EnsureUser(ctx context.Context, userID int64) error
	Insert(ctx context.Context, r *ItemRequest) error
	GetByID(ctx context.Context, id int64) (*ItemRequest, error)
	ListByRequestor(ctx context.Context, userID int64) ([]ItemRequest, error)
	ListOther(ctx context.Context, userID int64, limit, offset int) ([]ItemRequest, error)
	ItemsByRequests(ctx context.Context, requestIDs []int64) ([]LinkedItem, error)
}

type Service struct {
	store RequestStore
	clock Clock
	log   *zap.Logger
}

func NewService(db *sql.DB, log *zap.Logger) *Service {
	return &Service{store: NewStore(db), clock: realClock{}, log: log}
}

func (s *Service) Create(ctx context.Context, req CreateRequestRequest, userID int64) (*RequestResponse, error) {
	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}
	r := &ItemRequest{
		Description: req.Description,
		RequestorID: userID,
		Created:     s.clock.Now(),
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("item request created", zap.Int64("id", r.ID), zap.Int64("requestor", userID))
	resp := toResponse(r)
	return &resp, nil
}

// GetByID is open to any existing user; the user lookup is only an
// existence gate.
func (s *Service) GetByID(ctx context.Context, requestID, userID int64) (*RequestResponse, error) {
	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}
	r, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	views, err := s.attachItems(ctx, []ItemRequest{*r})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) GetAllByRequestor(ctx context.Context, userID int64) ([]RequestResponse, error) {
	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}
	rs, err := s.store.ListByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, rs)
}

// GetAll lists other users' requests; the caller's own are excluded.
func (s *Service) GetAll(ctx context.Context, userID int64, from, size int) ([]RequestResponse, error) {
	if err := s.store.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}
	page, err := pagex.New(from, size)
	if err != nil {
		return nil, err
	}
	rs, err := s.store.ListOther(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, rs)
}

func (s *Service) attachItems(ctx context.Context, rs []ItemRequest) ([]RequestResponse, error) {
	ids := make([]int64, 0, len(rs))
	for i := range rs {
		ids = append(ids, rs[i].ID)
	}
	items, err := s.store.ItemsByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]LinkedItemResponse, len(rs))
	for i := range items {
		byRequest[items[i].RequestID] = append(byRequest[items[i].RequestID], toLinkedItemResponse(&items[i]))
	}

	out := make([]RequestResponse, 0, len(rs))
	for i := range rs {
		view := toResponse(&rs[i])
		if linked, ok := byRequest[view.ID]; ok {
			view.Items = linked
		}
		out = append(out, view)
	}
	return out, nil
}
