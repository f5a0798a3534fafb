package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/page"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrMalformedRequest  = apperror.New(http.StatusBadRequest, "malformed booking request: item id, start and end are required and start must be before end")
	ErrStartTimePast     = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrUserNotFound      = apperror.New(http.StatusNotFound, "user not found")
	ErrItemNotFound      = apperror.New(http.StatusNotFound, "item not found")
	ErrItemUnavailable   = apperror.New(http.StatusConflict, "item unavailable")
	ErrOwnerBooking      = apperror.New(http.StatusForbidden, "owner cannot book own item")
	ErrNotItemOwner      = apperror.New(http.StatusForbidden, "only the item owner can approve or reject a booking")
	ErrNotWaiting        = apperror.New(http.StatusConflict, "booking not awaiting approval")
	ErrIllegalSearchMode = apperror.New(http.StatusBadRequest, "unknown search mode")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// Booking is a reservation of an item by a user for a time window.
// Item and Booker are snapshots taken when the booking is read.
type Booking struct {
	ID     int64
	Start  time.Time
	End    time.Time
	Item   ItemRef
	Booker UserRef
	Status Status
}

// ItemRef is the part of an item a booking carries around.
type ItemRef struct {
	ID      int64
	Name    string
	OwnerID int64
}

// UserRef is the part of a user a booking carries around.
type UserRef struct {
	ID   int64
	Name string
}

// Filter is the query contract of Repository.List.
// Zero values mean "no constraint". Time bounds are compared against start_time/end_time.
type Filter struct {
	BookerID      int64
	OwnerID       int64
	ItemID        int64
	Status        Status
	ExcludeStatus Status

	StartAtOrBefore *time.Time // start <= t
	StartBefore     *time.Time // start < t
	StartAfter      *time.Time // start > t
	EndBefore       *time.Time // end < t
	EndAfter        *time.Time // end > t

	// Ascending sorts by start ascending; the default is start descending.
	Ascending bool
	Page      page.Page
}
