package item

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item not found")
	ErrUserNotFound        = apperror.New(http.StatusNotFound, "user not found")
	ErrRequestNotFound     = apperror.New(http.StatusNotFound, "item request not found")
	ErrNotOwner            = apperror.New(http.StatusForbidden, "only the item owner can modify the item")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "name is required")
	ErrNameTooLong         = apperror.New(http.StatusBadRequest, "name must be at most 255 characters")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description is required")
	ErrDescriptionTooLong  = apperror.New(http.StatusBadRequest, "description must be at most 512 characters")
	ErrAvailableRequired   = apperror.New(http.StatusBadRequest, "available is required")
	ErrCommentTextRequired = apperror.New(http.StatusBadRequest, "comment text is required")
	ErrCommentTextTooLong  = apperror.New(http.StatusBadRequest, "comment text must be at most 512 characters")
	ErrNoFinishedBooking   = apperror.New(http.StatusBadRequest, "failed to add comment: no finished bookings found")
	ErrOwnerComment        = apperror.New(http.StatusForbidden, "item owners cannot comment on their own items")
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 512
	MaxCommentLength     = 512
)

// Item is a thing a user offers for borrowing.
// Available gates new bookings; bookings never change it.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64  // request this item was listed in response to
	PhotoFileID *string // file id of the item photo
}

// Comment is feedback left on an item by a past borrower.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	CreatedAt  time.Time
}

// BookingBrief is the short form of a booking shown on an item.
type BookingBrief struct {
	ID       int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// Details is an item with its comments and, for the owner, the bookings around now.
type Details struct {
	Item        *Item
	Comments    []*Comment
	LastBooking *BookingBrief
	NextBooking *BookingBrief
}

// Filter defines parameters for listing items.
type Filter struct {
	OwnerID       int64
	RequestIDs    []int64
	Text          string // case-insensitive match on name or description
	AvailableOnly bool
	Page          page.Page
}
