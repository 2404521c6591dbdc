package users

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

type UserStore interface {
	Insert(ctx context.Context, u *User) error
	GetAll(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store UserStore
	log   *zap.Logger
}

func NewService(db *sql.DB, log *zap.Logger) *Service {
	return &Service{store: NewStore(db), log: log}
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	u := &User{Email: req.Email, Name: req.Name}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.Int64("id", u.ID), zap.String("email", u.Email))
	resp := toResponse(u)
	return &resp, nil
}

func (s *Service) GetAll(ctx context.Context) ([]UserResponse, error) {
	us, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(us))
	for i := range us {
		out = append(out, toResponse(&us[i]))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(u)
	return &resp, nil
}

// Update loads the stored row, merges the non-nil patch fields and persists.
func (s *Service) Update(ctx context.Context, req UpdateUserRequest, id int64) (*UserResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPatch(u, req)
	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user updated", zap.Int64("id", u.ID))
	resp := toResponse(u)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int64("id", id))
	return nil
}

func applyPatch(u *User, patch UpdateUserRequest) {
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
}
