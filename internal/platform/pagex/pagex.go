// Package pagex implements the from/size pagination contract shared by every
// list endpoint. "from" is not a raw offset: the page actually served is
// index from/size (integer division) whenever from > 0. The formula is kept
// for wire compatibility with existing clients.
package pagex

import "shareit-backend/internal/platform/apperr"

const (
	DefaultFrom = 0
	DefaultSize = 10
)

type Page struct {
	Index int
	Size  int
}

// New validates from/size and applies the page-index coercion.
// from < 0 or size <= 0 is an INVALID_ARGUMENT, never a BAD_REQUEST.
func New(from, size int) (Page, error) {
	if from < 0 || size <= 0 {
		return Page{}, apperr.Invalid("invalid page start index or page size")
	}
	idx := 0
	if from > 0 {
		idx = from / size
	}
	return Page{Index: idx, Size: size}, nil
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return p.Index * p.Size }
