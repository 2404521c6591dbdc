package items

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

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

func (s *Store) EnsureRequest(ctx context.Context, requestID int64) error {
	const q = `SELECT id FROM requests WHERE id = ?`
	var id int64
	if err := s.db.QueryRowContext(ctx, q, requestID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("item request not found")
		}
		return err
	}
	return nil
}

func (s *Store) GetAuthorName(ctx context.Context, userID int64) (string, error) {
	const q = `SELECT name FROM users WHERE id = ?`
	var name string
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFound("user not found")
		}
		return "", err
	}
	return name, nil
}

func (s *Store) Insert(ctx context.Context, it *Item) error {
	const q = `INSERT INTO items (name, description, available, owner_id, request_id) VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.OwnerID, it.RequestID)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	it.ID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	const q = `SELECT id, name, description, available, owner_id, request_id FROM items WHERE id = ?`
	var it Item
	err := s.db.QueryRowContext(ctx, q, id).
		Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("item not found")
		}
		return nil, err
	}
	return &it, nil
}

func (s *Store) Update(ctx context.Context, it *Item) error {
	const q = `UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.ID)
	return err
}

func (s *Store) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]Item, error) {
	const q = `SELECT id, name, description, available, owner_id, request_id
	FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return s.queryItems(ctx, q, ownerID, limit, offset)
}

// Search matches the text case-insensitively against name or description,
// available items only. The empty-query short-circuit lives in the service.
func (s *Store) Search(ctx context.Context, text string, limit, offset int) ([]Item, error) {
	const q = `SELECT id, name, description, available, owner_id, request_id
	FROM items
	WHERE available = TRUE
	  AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)
	ORDER BY id LIMIT ? OFFSET ?`
	pattern := "%" + strings.ToLower(text) + "%"
	return s.queryItems(ctx, q, pattern, pattern, limit, offset)
}

func (s *Store) queryItems(ctx context.Context, q string, args ...any) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ApprovedBookings returns all APPROVED bookings of the given items.
func (s *Store) ApprovedBookings(ctx context.Context, itemIDs []int64) ([]ApprovedBooking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	sb := strings.Builder{}
	sb.WriteString("SELECT id, item_id, booker_id, `start`, `end` FROM bookings WHERE status = 'APPROVED' AND item_id IN (")
	args := make([]any, 0, len(itemIDs))
	for i, id := range itemIDs {
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

	var out []ApprovedBooking
	for rows.Next() {
		var b ApprovedBooking
		if err := rows.Scan(&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) CommentsByItem(ctx context.Context, itemID int64) ([]Comment, error) {
	const q = `SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
	FROM comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.item_id = ?
	ORDER BY c.created`
	rows, err := s.db.QueryContext(ctx, q, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.Text, &cm.ItemID, &cm.AuthorID, &cm.AuthorName, &cm.Created); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

// HasCompletedBooking reports whether the user has a booking of the item
// whose end lies strictly before now.
func (s *Store) HasCompletedBooking(ctx context.Context, userID, itemID int64, now time.Time) (bool, error) {
	const q = "SELECT EXISTS (SELECT 1 FROM bookings WHERE booker_id = ? AND item_id = ? AND `end` < ?)"
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, userID, itemID, now).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (s *Store) InsertComment(ctx context.Context, cm *Comment) error {
	const q = `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, cm.Text, cm.ItemID, cm.AuthorID, cm.Created)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	cm.ID = id
	return nil
}
