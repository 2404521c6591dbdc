package bookings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"

	"shareit-backend/internal/platform/apperr"
	"shareit-backend/internal/platform/db"
)

const dialect = "mysql"

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, b *Booking) error {
	const q = "INSERT INTO bookings (`start`, `end`, item_id, booker_id, status) VALUES (?, ?, ?, ?, ?)"
	res, err := s.db.ExecContext(ctx, q, b.Start, b.End, b.ItemID, b.BookerID, b.Status)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	b.ID = id
	return nil
}

func (s *Store) GetDetail(ctx context.Context, id int64) (*BookingDetail, error) {
	const q = "SELECT b.id, b.`start`, b.`end`, b.item_id, b.booker_id, b.status, " +
		"i.name, i.owner_id, u.name " +
		"FROM bookings b " +
		"JOIN items i ON i.id = b.item_id " +
		"JOIN users u ON u.id = b.booker_id " +
		"WHERE b.id = ?"
	return scanDetail(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) GetItemRef(ctx context.Context, itemID int64) (*ItemRef, error) {
	const q = `SELECT id, name, owner_id, available FROM items WHERE id = ?`
	var it ItemRef
	if err := s.db.QueryRowContext(ctx, q, itemID).Scan(&it.ID, &it.Name, &it.OwnerID, &it.Available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("item not found")
		}
		return nil, err
	}
	return &it, nil
}

func (s *Store) GetUserRef(ctx context.Context, userID int64) (*UserRef, error) {
	const q = `SELECT id, name FROM users WHERE id = ?`
	var u UserRef
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&u.ID, &u.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

// ---------- status transition ----------

// Tx is the slice of a transaction the approve/reject flow needs.
type Tx interface {
	GetDetailForUpdate(ctx context.Context, id int64) (*BookingDetail, error)
	UpdateStatus(ctx context.Context, id int64, st Status) error
}

type storeTx struct {
	tx db.DBTX
}

// InTx runs fn inside one transaction so the read-check-write status
// transition is not interleaved with a concurrent one.
func (s *Store) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		return fn(&storeTx{tx: tx})
	})
}

func (t *storeTx) GetDetailForUpdate(ctx context.Context, id int64) (*BookingDetail, error) {
	const q = "SELECT b.id, b.`start`, b.`end`, b.item_id, b.booker_id, b.status, " +
		"i.name, i.owner_id, u.name " +
		"FROM bookings b " +
		"JOIN items i ON i.id = b.item_id " +
		"JOIN users u ON u.id = b.booker_id " +
		"WHERE b.id = ? FOR UPDATE"
	return scanDetail(t.tx.QueryRowContext(ctx, q, id))
}

func (t *storeTx) UpdateStatus(ctx context.Context, id int64, st Status) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, st, id)
	return err
}

// ---------- filtered lists ----------

// ListByBooker returns the caller's bookings filtered by state,
// newest start first.
func (s *Store) ListByBooker(ctx context.Context, bookerID int64, st State, now time.Time, limit, offset int) ([]BookingDetail, error) {
	return s.list(ctx, goqu.I("b.booker_id").Eq(bookerID), st, now, limit, offset)
}

// ListByOwner is the same filter scoped to bookings of items the caller owns.
func (s *Store) ListByOwner(ctx context.Context, ownerID int64, st State, now time.Time, limit, offset int) ([]BookingDetail, error) {
	return s.list(ctx, goqu.I("i.owner_id").Eq(ownerID), st, now, limit, offset)
}

// The WHERE clause varies with the logical state, so the query is built
// with goqu instead of hand-concatenated SQL.
func (s *Store) list(ctx context.Context, scope exp.BooleanExpression, st State, now time.Time, limit, offset int) ([]BookingDetail, error) {
	ds := goqu.Dialect(dialect).
		From(goqu.T("bookings").As("b")).
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.booker_id")))).
		Select(
			goqu.I("b.id"), goqu.I("b.start"), goqu.I("b.end"),
			goqu.I("b.item_id"), goqu.I("b.booker_id"), goqu.I("b.status"),
			goqu.I("i.name").As("item_name"), goqu.I("i.owner_id"),
			goqu.I("u.name").As("booker_name"),
		).
		Where(scope)

	switch st {
	case StateCurrent:
		ds = ds.Where(goqu.I("b.start").Lte(now), goqu.I("b.end").Gte(now))
	case StatePast:
		ds = ds.Where(goqu.I("b.end").Lt(now))
	case StateFuture:
		ds = ds.Where(goqu.I("b.start").Gt(now))
	case StateAll:
		// no extra filter
	default:
		if status, ok := st.status(); ok {
			ds = ds.Where(goqu.I("b.status").Eq(string(status)))
		}
	}

	query, args, err := ds.
		Order(goqu.I("b.start").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingDetail
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.ID, &d.Start, &d.End, &d.ItemID, &d.BookerID, &d.Status,
			&d.ItemName, &d.ItemOwnerID, &d.BookerName,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDetail(row *sql.Row) (*BookingDetail, error) {
	var d BookingDetail
	err := row.Scan(
		&d.ID, &d.Start, &d.End, &d.ItemID, &d.BookerID, &d.Status,
		&d.ItemName, &d.ItemOwnerID, &d.BookerName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, err
	}
	return &d, nil
}
