package items

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shareit-backend/internal/platform/apperr"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeItemStore struct {
	users    map[int64]string
	requests map[int64]bool
	items    map[int64]*Item
	nextID   int64

	approved  []ApprovedBooking
	comments  map[int64][]Comment
	completed bool

	searchText  string
	searchCalls int
	inserted    []*Comment
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{
		users:    map[int64]string{},
		requests: map[int64]bool{},
		items:    map[int64]*Item{},
		comments: map[int64][]Comment{},
		nextID:   10,
	}
}

func (s *fakeItemStore) EnsureUser(_ context.Context, userID int64) error {
	if _, ok := s.users[userID]; !ok {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *fakeItemStore) EnsureRequest(_ context.Context, requestID int64) error {
	if !s.requests[requestID] {
		return apperr.NotFound("item request not found")
	}
	return nil
}

func (s *fakeItemStore) GetAuthorName(_ context.Context, userID int64) (string, error) {
	name, ok := s.users[userID]
	if !ok {
		return "", apperr.NotFound("user not found")
	}
	return name, nil
}

func (s *fakeItemStore) Insert(_ context.Context, it *Item) error {
	s.nextID++
	it.ID = s.nextID
	s.items[it.ID] = it
	return nil
}

func (s *fakeItemStore) GetByID(_ context.Context, id int64) (*Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("item not found")
	}
	cp := *it
	return &cp, nil
}

func (s *fakeItemStore) Update(_ context.Context, it *Item) error {
	s.items[it.ID] = it
	return nil
}

func (s *fakeItemStore) ListByOwner(_ context.Context, ownerID int64, _, _ int) ([]Item, error) {
	var out []Item
	for _, it := range s.items {
		if it.OwnerID == ownerID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *fakeItemStore) Search(_ context.Context, text string, _, _ int) ([]Item, error) {
	s.searchText = text
	s.searchCalls++
	var out []Item
	for _, it := range s.items {
		if it.Available {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *fakeItemStore) ApprovedBookings(_ context.Context, _ []int64) ([]ApprovedBooking, error) {
	return s.approved, nil
}

func (s *fakeItemStore) CommentsByItem(_ context.Context, itemID int64) ([]Comment, error) {
	return s.comments[itemID], nil
}

func (s *fakeItemStore) HasCompletedBooking(_ context.Context, _, _ int64, _ time.Time) (bool, error) {
	return s.completed, nil
}

func (s *fakeItemStore) InsertComment(_ context.Context, cm *Comment) error {
	s.nextID++
	cm.ID = s.nextID
	s.inserted = append(s.inserted, cm)
	return nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store ItemStore) *Service {
	return &Service{store: store, clock: fixedClock{t: testNow}, log: zap.NewNop()}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func Test_Create(t *testing.T) {
	store := newFakeItemStore()
	store.users[1] = "Anna"
	svc := newTestService(store)

	res, err := svc.Create(context.Background(), CreateItemRequest{
		Name:        "drill",
		Description: strPtr("cordless"),
		Available:   boolPtr(true),
	}, 1)
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Nil(t, res.RequestID)
	assert.Equal(t, int64(1), store.items[res.ID].OwnerID)
}

func Test_Create_UnknownOwner(t *testing.T) {
	svc := newTestService(newFakeItemStore())

	_, err := svc.Create(context.Background(), CreateItemRequest{
		Name:        "drill",
		Description: strPtr("cordless"),
		Available:   boolPtr(true),
	}, 42)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func Test_Create_WithRequestID(t *testing.T) {
	store := newFakeItemStore()
	store.users[1] = "Anna"
	store.requests[7] = true
	svc := newTestService(store)

	var reqID int64 = 7
	res, err := svc.Create(context.Background(), CreateItemRequest{
		Name:        "drill",
		Description: strPtr("cordless"),
		Available:   boolPtr(true),
		RequestID:   &reqID,
	}, 1)
	require.NoError(t, err)
	require.NotNil(t, res.RequestID)
	assert.Equal(t, int64(7), *res.RequestID)

	// unknown request id refuses the item instead of creating a stub request
	var missing int64 = 99
	_, err = svc.Create(context.Background(), CreateItemRequest{
		Name:        "saw",
		Description: strPtr("hand saw"),
		Available:   boolPtr(true),
		RequestID:   &missing,
	}, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func Test_Update_MergesOnlyProvidedFields(t *testing.T) {
	store := newFakeItemStore()
	store.users[1] = "Anna"
	store.items[5] = &Item{ID: 5, Name: "drill", Description: "cordless", Available: true, OwnerID: 1}
	svc := newTestService(store)

	res, err := svc.Update(context.Background(), UpdateItemRequest{Available: boolPtr(false)}, 1, 5)
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "drill", res.Name)
	assert.Equal(t, "cordless", res.Description)
}

func Test_Update_ForeignItemLooksAbsent(t *testing.T) {
	store := newFakeItemStore()
	store.users[2] = "Bob"
	store.items[5] = &Item{ID: 5, Name: "drill", Available: true, OwnerID: 1}
	svc := newTestService(store)

	_, err := svc.Update(context.Background(), UpdateItemRequest{Name: strPtr("mine now")}, 2, 5)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	assert.Equal(t, "drill", store.items[5].Name)
}

func Test_GetByID_BookingDatesAreOwnerOnly(t *testing.T) {
	store := newFakeItemStore()
	store.items[5] = &Item{ID: 5, Name: "drill", Available: true, OwnerID: 1}
	store.approved = []ApprovedBooking{
		{ID: 21, ItemID: 5, BookerID: 2, Start: testNow.Add(-2 * time.Hour), End: testNow.Add(-time.Hour)},
	}
	svc := newTestService(store)

	owner, err := svc.GetByID(context.Background(), 5, 1)
	require.NoError(t, err)
	require.NotNil(t, owner.LastBooking)
	assert.Equal(t, int64(21), owner.LastBooking.ID)

	viewer, err := svc.GetByID(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Nil(t, viewer.LastBooking)
	assert.Nil(t, viewer.NextBooking)
	assert.NotNil(t, viewer.Comments, "comments must serialize as [] not null")
}

func Test_WithDates_LastAndNextSelection(t *testing.T) {
	store := newFakeItemStore()
	store.items[5] = &Item{ID: 5, Name: "drill", Available: true, OwnerID: 1}
	store.approved = []ApprovedBooking{
		// past, older
		{ID: 20, ItemID: 5, BookerID: 2, Start: testNow.Add(-48 * time.Hour), End: testNow.Add(-47 * time.Hour)},
		// past, latest start: the last booking
		{ID: 21, ItemID: 5, BookerID: 3, Start: testNow.Add(-2 * time.Hour), End: testNow.Add(-time.Hour)},
		// future, later
		{ID: 23, ItemID: 5, BookerID: 2, Start: testNow.Add(48 * time.Hour), End: testNow.Add(49 * time.Hour)},
		// future, earliest start: the next booking
		{ID: 22, ItemID: 5, BookerID: 4, Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour)},
		// other item, must be ignored
		{ID: 30, ItemID: 6, BookerID: 2, Start: testNow.Add(-time.Hour), End: testNow.Add(time.Hour)},
	}
	svc := newTestService(store)

	view, err := svc.GetByID(context.Background(), 5, 1)
	require.NoError(t, err)
	require.NotNil(t, view.LastBooking)
	assert.Equal(t, int64(21), view.LastBooking.ID)
	assert.Equal(t, int64(3), view.LastBooking.BookerID)
	require.NotNil(t, view.NextBooking)
	assert.Equal(t, int64(22), view.NextBooking.ID)
	assert.Equal(t, int64(4), view.NextBooking.BookerID)
}

func Test_WithDates_TieOnStartPrefersLaterEnd(t *testing.T) {
	store := newFakeItemStore()
	store.items[5] = &Item{ID: 5, Name: "drill", Available: true, OwnerID: 1}
	start := testNow.Add(-3 * time.Hour)
	store.approved = []ApprovedBooking{
		{ID: 20, ItemID: 5, BookerID: 2, Start: start, End: testNow.Add(-2 * time.Hour)},
		{ID: 21, ItemID: 5, BookerID: 3, Start: start, End: testNow.Add(-time.Hour)},
	}
	svc := newTestService(store)

	view, err := svc.GetByID(context.Background(), 5, 1)
	require.NoError(t, err)
	require.NotNil(t, view.LastBooking)
	assert.Equal(t, int64(21), view.LastBooking.ID)
}

func Test_Search_EmptyQueryShortCircuits(t *testing.T) {
	store := newFakeItemStore()
	store.items[5] = &Item{ID: 5, Name: "drill", Available: true, OwnerID: 1}
	svc := newTestService(store)

	res, err := svc.Search(context.Background(), "", 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
	assert.Zero(t, store.searchCalls, "empty query must not hit the store")
}

func Test_Search_InvalidPageBeatsEmptyQuery(t *testing.T) {
	svc := newTestService(newFakeItemStore())

	_, err := svc.Search(context.Background(), "", -1, 10)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func Test_CreateComment(t *testing.T) {
	store := newFakeItemStore()
	store.users[2] = "Bob"
	store.items[5] = &Item{ID: 5, Name: "drill", Available: true, OwnerID: 1}
	store.completed = true
	svc := newTestService(store)

	res, err := svc.CreateComment(context.Background(), 2, 5, CreateCommentRequest{Text: "works great"})
	require.NoError(t, err)
	assert.Equal(t, "works great", res.Text)
	assert.Equal(t, "Bob", res.AuthorName)
	assert.Equal(t, testNow, res.Created)
	require.Len(t, store.inserted, 1)
}

func Test_CreateComment_RequiresCompletedBooking(t *testing.T) {
	store := newFakeItemStore()
	store.users[2] = "Bob"
	store.completed = false
	svc := newTestService(store)

	_, err := svc.CreateComment(context.Background(), 2, 5, CreateCommentRequest{Text: "nope"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
	assert.Empty(t, store.inserted)
}

func Test_GetAll_InvalidPage(t *testing.T) {
	svc := newTestService(newFakeItemStore())

	_, err := svc.GetAll(context.Background(), 1, 0, 0)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func Test_ToResponse_RequestID(t *testing.T) {
	it := &Item{ID: 5, Name: "drill", RequestID: sql.NullInt64{Int64: 7, Valid: true}}
	resp := toResponse(it)
	require.NotNil(t, resp.RequestID)
	assert.Equal(t, int64(7), *resp.RequestID)

	resp = toResponse(&Item{ID: 6, Name: "saw"})
	assert.Nil(t, resp.RequestID)
}
