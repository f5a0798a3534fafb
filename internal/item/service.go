package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// BookingHistory answers the booking questions the item service needs.
type BookingHistory interface {
	LastAndNext(ctx context.Context, itemID int64, now time.Time) (last, next *BookingBrief, err error)
	HasFinishedBooking(ctx context.Context, userID int64, now time.Time) (bool, error)
}

// UserDirectory looks up item owners and comment authors.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// RequestDirectory checks item requests referenced by new items.
type RequestDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// FileRemover deletes stored files that items no longer reference.
type FileRemover interface {
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

// UpdateRequest uses pointers to distinguish "not sent" from "sent as empty".
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

// Service defines business logic related to items.
type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error)
	Update(ctx context.Context, itemID, userID int64, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	Get(ctx context.Context, itemID, userID int64) (*Details, error)
	ListByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*Details, error)
	ListByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error)
	Search(ctx context.Context, text string, p page.Page) ([]*Item, error)
	AddComment(ctx context.Context, itemID, userID int64, text string) (*Comment, error)
	// SetPhoto points the item at an uploaded file and removes the previous photo.
	SetPhoto(ctx context.Context, itemID, userID int64, fileID string) error
}

type service struct {
	repo     Repository
	users    UserDirectory
	requests RequestDirectory
	history  BookingHistory
	files    FileRemover
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new item Service.
func NewService(repo Repository, users UserDirectory, requests RequestDirectory, history BookingHistory, files FileRemover) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
		history:  history,
		files:    files,
		log:      logger.WithService("item"),
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error) {
	name, err := cleanText(req.Name, MaxNameLength, ErrNameRequired, ErrNameTooLong)
	if err != nil {
		return nil, err
	}
	description, err := cleanText(req.Description, MaxDescriptionLength, ErrDescriptionRequired, ErrDescriptionTooLong)
	if err != nil {
		return nil, err
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if _, err := s.getUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to check item request: %w", err)
		}
		if !ok {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		Name:        name,
		Description: description,
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item created", "item_id", it.ID, "owner_id", ownerID)
	return it, nil
}

func (s *service) Update(ctx context.Context, itemID, userID int64, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		name, err := cleanText(*req.Name, MaxNameLength, ErrNameRequired, ErrNameTooLong)
		if err != nil {
			return nil, err
		}
		it.Name = name
	}
	if req.Description != nil {
		description, err := cleanText(*req.Description, MaxDescriptionLength, ErrDescriptionRequired, ErrDescriptionTooLong)
		if err != nil {
			return nil, err
		}
		it.Description = description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Get(ctx context.Context, itemID, userID int64) (*Details, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, []int64{it.ID})
	if err != nil {
		return nil, err
	}
	d := &Details{Item: it, Comments: comments}

	// Only the owner sees the bookings around now.
	if it.OwnerID == userID {
		if err := s.attachBookings(ctx, d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*Details, error) {
	if _, err := s.getUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, Filter{OwnerID: ownerID, Page: p})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*Details{}, nil
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	comments, err := s.repo.ListComments(ctx, ids)
	if err != nil {
		return nil, err
	}
	byItem := make(map[int64][]*Comment, len(items))
	for _, c := range comments {
		byItem[c.ItemID] = append(byItem[c.ItemID], c)
	}

	result := make([]*Details, len(items))
	for i, it := range items {
		d := &Details{Item: it, Comments: byItem[it.ID]}
		if err := s.attachBookings(ctx, d); err != nil {
			return nil, err
		}
		result[i] = d
	}
	return result, nil
}

func (s *service) ListByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return []*Item{}, nil
	}
	return s.repo.List(ctx, Filter{RequestIDs: requestIDs})
}

func (s *service) Search(ctx context.Context, text string, p page.Page) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.List(ctx, Filter{Text: text, AvailableOnly: true, Page: p})
}

func (s *service) AddComment(ctx context.Context, itemID, userID int64, text string) (*Comment, error) {
	text, err := cleanText(text, MaxCommentLength, ErrCommentTextRequired, ErrCommentTextTooLong)
	if err != nil {
		return nil, err
	}

	author, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Any finished booking qualifies, not only one of this item.
	finished, err := s.history.HasFinishedBooking(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	if !finished {
		return nil, ErrNoFinishedBooking
	}
	if it.OwnerID == userID {
		return nil, ErrOwnerComment
	}

	c := &Comment{
		Text:       text,
		ItemID:     it.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "comment added", "comment_id", c.ID, "item_id", it.ID, "author_id", userID)
	return c, nil
}

func (s *service) SetPhoto(ctx context.Context, itemID, userID int64, fileID string) error {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it.OwnerID != userID {
		return ErrNotOwner
	}

	previous := it.PhotoFileID
	it.PhotoFileID = &fileID
	if err := s.repo.Update(ctx, it); err != nil {
		return err
	}

	if previous != nil && *previous != fileID {
		if err := s.files.Delete(ctx, *previous); err != nil {
			s.log.WarnContext(ctx, "failed to remove previous item photo", "item_id", it.ID, "file_id", *previous, "error", err)
		}
	}
	return nil
}

func (s *service) attachBookings(ctx context.Context, d *Details) error {
	last, next, err := s.history.LastAndNext(ctx, d.Item.ID, s.now())
	if err != nil {
		return fmt.Errorf("failed to load bookings of item %d: %w", d.Item.ID, err)
	}
	d.LastBooking = last
	d.NextBooking = next
	return nil
}

func (s *service) getUser(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

func cleanText(s string, max int, required, tooLong error) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", required
	}
	if utf8.RuneCountInString(s) > max {
		return "", tooLong
	}
	return s, nil
}
