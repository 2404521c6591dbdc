package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shareit-backend/internal/platform/apperr"
)

type fakeUserStore struct {
	byID    map[int64]*User
	nextID  int64
	updated *User
	deleted []int64
}

func newFakeUserStore(users ...*User) *fakeUserStore {
	s := &fakeUserStore{byID: map[int64]*User{}, nextID: 100}
	for _, u := range users {
		s.byID[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Insert(_ context.Context, u *User) error {
	for _, other := range s.byID {
		if other.Email == u.Email {
			return apperr.Conflict("email already registered")
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.byID[u.ID] = u
	return nil
}

func (s *fakeUserStore) GetAll(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) Update(_ context.Context, u *User) error {
	s.updated = u
	s.byID[u.ID] = u
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	delete(s.byID, id)
	return nil
}

func newTestService(store UserStore) *Service {
	return &Service{store: store, log: zap.NewNop()}
}

func Test_Create(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store)

	res, err := svc.Create(context.Background(), CreateUserRequest{Email: "a@x.com", Name: "Anna"})
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, "a@x.com", res.Email)

	_, err = svc.Create(context.Background(), CreateUserRequest{Email: "a@x.com", Name: "Other"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func Test_Update_MergesOnlyProvidedFields(t *testing.T) {
	store := newFakeUserStore(&User{ID: 1, Email: "a@x.com", Name: "Anna"})
	svc := newTestService(store)

	name := "Annette"
	res, err := svc.Update(context.Background(), UpdateUserRequest{Name: &name}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Annette", res.Name)
	assert.Equal(t, "a@x.com", res.Email, "nil email must keep the stored value")

	email := "b@x.com"
	res, err = svc.Update(context.Background(), UpdateUserRequest{Email: &email}, 1)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", res.Email)
	assert.Equal(t, "Annette", res.Name)
}

func Test_Update_UnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserStore())

	name := "Anna"
	_, err := svc.Update(context.Background(), UpdateUserRequest{Name: &name}, 42)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func Test_GetByID_UnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserStore())

	_, err := svc.GetByID(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func Test_Delete_AbsentIDIsNotAnError(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store)

	require.NoError(t, svc.Delete(context.Background(), 99))
	assert.Equal(t, []int64{99}, store.deleted)
}
