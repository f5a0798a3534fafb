package itemrequest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
)

// UserDirectory checks requesters.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ItemLister finds the items listed in response to requests.
type ItemLister interface {
	ListByRequests(ctx context.Context, requestIDs []int64) ([]*item.Item, error)
}

// Service defines business logic related to item requests.
type Service interface {
	Create(ctx context.Context, userID int64, description string) (*Request, error)
	// ListOwn returns the caller's requests, newest first.
	ListOwn(ctx context.Context, userID int64) ([]*WithItems, error)
	// ListOthers returns other users' requests, newest first.
	ListOthers(ctx context.Context, userID int64, p page.Page) ([]*WithItems, error)
	Get(ctx context.Context, requestID, userID int64) (*WithItems, error)
}

type service struct {
	repo  Repository
	users UserDirectory
	items ItemLister
	log   *slog.Logger
}

// NewService creates a new item request Service.
func NewService(repo Repository, users UserDirectory, items ItemLister) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		log:   logger.WithService("itemrequest"),
	}
}

func (s *service) Create(ctx context.Context, userID int64, description string) (*Request, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	req := &Request{Description: description, RequesterID: userID}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item request created", "request_id", req.ID, "requester_id", userID)
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, userID int64) ([]*WithItems, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.List(ctx, Filter{RequesterID: userID})
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *service) ListOthers(ctx context.Context, userID int64, p page.Page) ([]*WithItems, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.List(ctx, Filter{ExcludeRequesterID: userID, Page: p})
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *service) Get(ctx context.Context, requestID, userID int64) (*WithItems, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	result, err := s.withItems(ctx, []*Request{req})
	if err != nil {
		return nil, err
	}
	return result[0], nil
}

// withItems attaches fulfilling items with one lookup for the whole batch.
func (s *service) withItems(ctx context.Context, requests []*Request) ([]*WithItems, error) {
	result := make([]*WithItems, len(requests))
	if len(requests) == 0 {
		return result, nil
	}

	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	items, err := s.items.ListByRequests(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load items of requests: %w", err)
	}

	byRequest := make(map[int64][]*item.Item, len(requests))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}
	for i, r := range requests {
		result[i] = &WithItems{Request: r, Items: byRequest[r.ID]}
	}
	return result, nil
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
