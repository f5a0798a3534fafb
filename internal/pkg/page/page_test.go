package page

import (
	"errors"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		from *int
		size *int
		want Page
	}{
		{"unset returns everything", nil, nil, All},
		{"from without size returns everything", intPtr(7), nil, All},
		{"size without from starts at zero", nil, intPtr(10), Page{Offset: 0, Limit: 10}},
		{"from aligned to page start", intPtr(5), intPtr(2), Page{Offset: 4, Limit: 2}},
		{"from inside first page", intPtr(3), intPtr(10), Page{Offset: 0, Limit: 10}},
		{"from zero allowed", intPtr(0), intPtr(1), Page{Offset: 0, Limit: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.from, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(intPtr(-1), intPtr(10))
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = New(intPtr(0), intPtr(0))
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = New(nil, intPtr(-5))
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestApply(t *testing.T) {
	q := squirrel.Select("id").From("items")

	sql, _, err := Page{Offset: 20, Limit: 10}.Apply(q).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM items LIMIT 10 OFFSET 20", sql)

	sql, _, err = All.Apply(q).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM items", sql)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Slice(items, Page{Offset: 2, Limit: 2}))
	assert.Equal(t, []int{5}, Slice(items, Page{Offset: 4, Limit: 2}))
	assert.Equal(t, []int{}, Slice(items, Page{Offset: 10, Limit: 2}))
	assert.Equal(t, items, Slice(items, All))
}
