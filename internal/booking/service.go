package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserDirectory looks up users referenced by bookings.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// ItemDirectory looks up items referenced by bookings.
type ItemDirectory interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
}

// CreateRequest holds the booker's input. Nil times and a zero ItemID mean "not sent".
type CreateRequest struct {
	ItemID int64
	Start  *time.Time
	End    *time.Time
}

// Service defines business logic related to bookings.
type Service interface {
	Create(ctx context.Context, bookerID int64, req CreateRequest) (*Booking, error)
	SetApproval(ctx context.Context, bookingID, ownerID int64, approved bool) (*Booking, error)
	Get(ctx context.Context, bookingID, userID int64) (*Booking, error)
	// ListByBooker and ListByOwner take the raw state token; empty means ALL.
	ListByBooker(ctx context.Context, bookerID int64, state string, p page.Page) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state string, p page.Page) ([]*Booking, error)
}

type service struct {
	repo  Repository
	users UserDirectory
	items ItemDirectory
	log   *slog.Logger
	now   func() time.Time
}

// NewService creates a new booking Service.
func NewService(repo Repository, users UserDirectory, items ItemDirectory) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		log:   logger.WithService("booking"),
		now:   time.Now,
	}
}

func (s *service) Create(ctx context.Context, bookerID int64, req CreateRequest) (*Booking, error) {
	if req.ItemID <= 0 || req.Start == nil || req.End == nil || !req.Start.Before(*req.End) {
		return nil, ErrMalformedRequest
	}
	if req.Start.Before(s.now()) {
		return nil, ErrStartTimePast
	}

	booker, err := s.users.GetByID(ctx, bookerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load booker: %w", err)
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if !it.Available {
		return nil, ErrItemUnavailable
	}
	if it.OwnerID == bookerID {
		return nil, ErrOwnerBooking
	}

	// No overlap check against the item's other bookings: two WAITING
	// bookings may cover the same window and the owner picks one.
	b := &Booking{
		Start:  req.Start.UTC(),
		End:    req.End.UTC(),
		Item:   ItemRef{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID},
		Booker: UserRef{ID: booker.ID, Name: booker.Name},
		Status: StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "booking created", "booking_id", b.ID, "item_id", it.ID, "booker_id", bookerID)
	return b, nil
}

func (s *service) SetApproval(ctx context.Context, bookingID, ownerID int64, approved bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if b.Item.OwnerID != ownerID {
		return nil, ErrNotItemOwner
	}
	if b.Status != StatusWaiting {
		return nil, ErrNotWaiting
	}

	to := StatusRejected
	if approved {
		to = StatusApproved
	}
	// The update is conditional on WAITING, so a concurrent decision makes this one fail.
	if err := s.repo.UpdateStatus(ctx, b.ID, StatusWaiting, to); err != nil {
		if errors.Is(err, ErrNotWaiting) {
			return nil, s.lostUpdate(ctx, b.ID)
		}
		return nil, err
	}
	b.Status = to

	s.log.InfoContext(ctx, "booking status changed", "booking_id", b.ID, "status", string(to), "owner_id", ownerID)
	return b, nil
}

func (s *service) Get(ctx context.Context, bookingID, userID int64) (*Booking, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	// Bookings are invisible to anyone but the booker and the item owner.
	if b.Booker.ID != userID && b.Item.OwnerID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, bookerID int64, state string, p page.Page) ([]*Booking, error) {
	return s.list(ctx, bookerID, Filter{BookerID: bookerID, Page: p}, state)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, state string, p page.Page) ([]*Booking, error) {
	return s.list(ctx, ownerID, Filter{OwnerID: ownerID, Page: p}, state)
}

// list checks the user before the state, so unknown users get 404 whatever the state.
func (s *service) list(ctx context.Context, userID int64, f Filter, state string) ([]*Booking, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	mode := SearchAll
	if strings.TrimSpace(state) != "" {
		var err error
		if mode, err = ParseSearchMode(state); err != nil {
			return nil, err
		}
	}
	f, err := mode.apply(f, s.now())
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, f)
}

// lostUpdate tells a booking removed by a cascading delete apart from one decided concurrently.
func (s *service) lostUpdate(ctx context.Context, bookingID int64) error {
	ok, err := s.repo.Exists(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to check booking: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return ErrNotWaiting
}

func (s *service) ensureUser(ctx context.Context, id int64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
