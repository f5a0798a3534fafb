package user

import (
	"net/http"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed = apperror.New(http.StatusConflict, "email already used")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "name is required")
	ErrNameTooLong      = apperror.New(http.StatusBadRequest, "name must be at most 255 characters")
	ErrInvalidEmail     = apperror.New(http.StatusBadRequest, "email is not valid")
)

const MaxNameLength = 255

// User is a ShareIt member. Users own items and book other users' items.
type User struct {
	ID    int64
	Name  string
	Email string
}

// Filter defines parameters for listing users.
type Filter struct {
	Offset uint64
	Limit  uint64
}
