package booking

import (
	"context"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
)

type itemHistory struct {
	repo Repository
}

// NewItemHistory exposes the booking store to the item service.
func NewItemHistory(repo Repository) item.BookingHistory {
	return &itemHistory{repo: repo}
}

// LastAndNext returns the latest booking that started before now and the
// earliest one starting after now. Rejected bookings are ignored.
func (h *itemHistory) LastAndNext(ctx context.Context, itemID int64, now time.Time) (last, next *item.BookingBrief, err error) {
	one := page.Page{Limit: 1}

	past, err := h.repo.List(ctx, Filter{
		ItemID:        itemID,
		ExcludeStatus: StatusRejected,
		StartBefore:   &now,
		Page:          one,
	})
	if err != nil {
		return nil, nil, err
	}
	upcoming, err := h.repo.List(ctx, Filter{
		ItemID:        itemID,
		ExcludeStatus: StatusRejected,
		StartAfter:    &now,
		Ascending:     true,
		Page:          one,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(past) > 0 {
		last = toBrief(past[0])
	}
	if len(upcoming) > 0 {
		next = toBrief(upcoming[0])
	}
	return last, next, nil
}

// HasFinishedBooking reports whether the user has any booking, on any item, that ended before now.
func (h *itemHistory) HasFinishedBooking(ctx context.Context, userID int64, now time.Time) (bool, error) {
	finished, err := h.repo.List(ctx, Filter{
		BookerID:  userID,
		EndBefore: &now,
		Page:      page.Page{Limit: 1},
	})
	if err != nil {
		return false, err
	}
	return len(finished) > 0, nil
}

func toBrief(b *Booking) *item.BookingBrief {
	return &item.BookingBrief{
		ID:       b.ID,
		BookerID: b.Booker.ID,
		Start:    b.Start,
		End:      b.End,
	}
}
