package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"shareit-backend/internal/platform/apperr"
)

const mysqlErrDuplicateEntry = 1062

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, u *User) error {
	const q = `INSERT INTO users (email, name) VALUES (?, ?)`
	res, err := s.db.ExecContext(ctx, q, u.Email, u.Name)
	if err != nil {
		return translateDuplicate(err)
	}
	id, _ := res.LastInsertId()
	u.ID = id
	return nil
}

func (s *Store) GetAll(ctx context.Context) ([]User, error) {
	const q = `SELECT id, email, name FROM users`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT id, email, name FROM users WHERE id = ?`
	var u User
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &u.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) Update(ctx context.Context, u *User) error {
	const q = `UPDATE users SET email = ?, name = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, q, u.Email, u.Name, u.ID); err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// Delete is idempotent: removing an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, id)
	return err
}

func translateDuplicate(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
		return apperr.Conflict("email already registered")
	}
	return err
}
