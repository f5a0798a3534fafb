package booking

import (
	"context"
	"sort"
	"sync"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// memRepository is an in-memory Repository that honors the Filter contract.
type memRepository struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]Booking
}

func newMemRepository() *memRepository {
	return &memRepository{bookings: map[int64]Booking{}}
}

func (m *memRepository) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	m.bookings[b.ID] = *b
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id int64) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *memRepository) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.bookings[id]
	return ok, nil
}

func (m *memRepository) UpdateStatus(_ context.Context, id int64, from, to Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return ErrNotWaiting
	}
	b.Status = to
	m.bookings[id] = b
	return nil
}

func (m *memRepository) List(_ context.Context, f Filter) ([]*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Booking
	for _, b := range m.bookings {
		if matches(b, f) {
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Start.Equal(b.Start) {
			if f.Ascending {
				return a.Start.Before(b.Start)
			}
			return a.Start.After(b.Start)
		}
		if f.Ascending {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	return page.Slice(out, f.Page), nil
}

func matches(b Booking, f Filter) bool {
	switch {
	case f.BookerID > 0 && b.Booker.ID != f.BookerID:
		return false
	case f.OwnerID > 0 && b.Item.OwnerID != f.OwnerID:
		return false
	case f.ItemID > 0 && b.Item.ID != f.ItemID:
		return false
	case f.Status != "" && b.Status != f.Status:
		return false
	case f.ExcludeStatus != "" && b.Status == f.ExcludeStatus:
		return false
	case f.StartAtOrBefore != nil && b.Start.After(*f.StartAtOrBefore):
		return false
	case f.StartBefore != nil && !b.Start.Before(*f.StartBefore):
		return false
	case f.StartAfter != nil && !b.Start.After(*f.StartAfter):
		return false
	case f.EndBefore != nil && !b.End.Before(*f.EndBefore):
		return false
	case f.EndAfter != nil && !b.End.After(*f.EndAfter):
		return false
	}
	return true
}

// put stores a booking as-is, bypassing service validation.
func (m *memRepository) put(b Booking) *Booking {
	_ = m.Create(context.Background(), &b)
	return &b
}

type fakeUsers map[int64]*user.User

func (f fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f[id]
	return ok, nil
}

func (f fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type fakeItems map[int64]*item.Item

func (f fakeItems) GetByID(_ context.Context, id int64) (*item.Item, error) {
	it, ok := f[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}
