// Package page converts the from/size pagination parameters used by list
// endpoints into an offset/limit window.
package page

import (
	"net/http"

	"github.com/Masterminds/squirrel"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var ErrInvalid = apperror.New(http.StatusBadRequest, "incorrect pagination parameters: from must be >= 0 and size must be > 0")

// Page is an offset/limit window. Limit 0 means unbounded.
type Page struct {
	Offset uint64
	Limit  uint64
}

// All is the unbounded window.
var All = Page{}

// New builds a Page from optional from/size values.
// The window starts at the page containing from: offset = (from / size) * size.
// Without size the whole result set is returned, whatever from is.
func New(from, size *int) (Page, error) {
	if from != nil && *from < 0 {
		return Page{}, ErrInvalid
	}
	if size != nil && *size <= 0 {
		return Page{}, ErrInvalid
	}
	if size == nil {
		return All, nil
	}

	f := 0
	if from != nil {
		f = *from
	}
	s := *size
	return Page{
		Offset: uint64((f / s) * s),
		Limit:  uint64(s),
	}, nil
}

// Apply adds LIMIT/OFFSET to a select builder.
func (p Page) Apply(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}

// Slice applies the window to an in-memory slice.
func Slice[T any](items []T, p Page) []T {
	if p.Offset >= uint64(len(items)) {
		return []T{}
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < uint64(len(items)) {
		items = items[:p.Limit]
	}
	return items
}
