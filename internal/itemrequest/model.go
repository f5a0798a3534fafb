package itemrequest

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item request not found")
	ErrUserNotFound        = apperror.New(http.StatusNotFound, "user not found")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "item request description must not be empty")
	ErrDescriptionTooLong  = apperror.New(http.StatusBadRequest, "item request description must be at most 512 characters")
)

const MaxDescriptionLength = 512

// Request is a user's ask for an item nobody lists yet.
type Request struct {
	ID          int64
	Description string
	RequesterID int64
	CreatedAt   time.Time
}

// WithItems is a request together with the items listed in response to it.
type WithItems struct {
	Request *Request
	Items   []*item.Item
}

// Filter defines parameters for listing requests. Results are newest first.
type Filter struct {
	RequesterID        int64
	ExcludeRequesterID int64
	Page               page.Page
}
