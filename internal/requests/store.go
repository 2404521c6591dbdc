package requests

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"shareit-backend/internal/platform/apperr"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) EnsureUser(ctx context.Context, userID int64) error {
	const q = `SELECT id FROM users WHERE id = ?`
	var id int64
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("user not found")
		}
		return err
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, r *ItemRequest) error {
	const q = `INSERT INTO requests (description, requestor_id, created) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, r.Description, r.RequestorID, r.Created)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	r.ID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*ItemRequest, error) {
	const q = `SELECT id, description, requestor_id, created FROM requests WHERE id = ?`
	var r ItemRequest
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&r.ID, &r.Description, &r.RequestorID, &r.Created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("item request not found")
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListByRequestor(ctx context.Context, userID int64) ([]ItemRequest, error) {
	const q = `SELECT id, description, requestor_id, created
	FROM requests WHERE requestor_id = ? ORDER BY created DESC`
	return s.queryRequests(ctx, q, userID)
}

// ListOther returns every request not filed by the given user, newest first.
func (s *Store) ListOther(ctx context.Context, userID int64, limit, offset int) ([]ItemRequest, error) {
	const q = `SELECT id, description, requestor_id, created
	FROM requests WHERE requestor_id <> ? ORDER BY created DESC LIMIT ? OFFSET ?`
	return s.queryRequests(ctx, q, userID, limit, offset)
}

func (s *Store) queryRequests(ctx context.Context, q string, args ...any) ([]ItemRequest, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemRequest
	for rows.Next() {
		var r ItemRequest
		if err := rows.Scan(&r.ID, &r.Description, &r.RequestorID, &r.Created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ItemsByRequests is the secondary lookup attaching items to requests.
func (s *Store) ItemsByRequests(ctx context.Context, requestIDs []int64) ([]LinkedItem, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	sb := strings.Builder{}
	sb.WriteString(`SELECT id, name, description, available, request_id FROM items WHERE request_id IN (`)
	args := make([]any, 0, len(requestIDs))
	for i, id := range requestIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?")
		args = append(args, id)
	}
	sb.WriteString(")")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LinkedItem
	for rows.Next() {
		var it LinkedItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.RequestID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
