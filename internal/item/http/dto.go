package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/file"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// ItemTag is a brief representation of an item, embedded in other responses.
type ItemTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemResponse struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Available         bool    `json:"available"`
	OwnerID           int64   `json:"owner_id"`
	RequestID         *int64  `json:"request_id"`
	PhotoURL          *string `json:"photo_url,omitempty"`
	PhotoThumbnailURL *string `json:"photo_thumbnail_url,omitempty"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	resp := ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
	}
	if it.PhotoFileID != nil {
		u, t := file.FileURL(*it.PhotoFileID), file.ThumbnailURL(*it.PhotoFileID)
		resp.PhotoURL, resp.PhotoThumbnailURL = &u, &t
	}
	return resp
}

type BookingBriefResponse struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func newBookingBriefResponse(b *item.BookingBrief) *BookingBriefResponse {
	if b == nil {
		return nil
	}
	return &BookingBriefResponse{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

func NewCommentResponse(c *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.CreatedAt,
	}
}

// ItemDetailsResponse is an item with comments and, for its owner, the bookings around now.
type ItemDetailsResponse struct {
	ItemResponse
	Comments    []CommentResponse     `json:"comments"`
	LastBooking *BookingBriefResponse `json:"last_booking"`
	NextBooking *BookingBriefResponse `json:"next_booking"`
}

func NewItemDetailsResponse(d *item.Details) ItemDetailsResponse {
	comments := make([]CommentResponse, len(d.Comments))
	for i, c := range d.Comments {
		comments[i] = NewCommentResponse(c)
	}
	return ItemDetailsResponse{
		ItemResponse: NewItemResponse(d.Item),
		Comments:     comments,
		LastBooking:  newBookingBriefResponse(d.LastBooking),
		NextBooking:  newBookingBriefResponse(d.NextBooking),
	}
}

// CreateItemRequest defines the payload for POST /items.
type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"request_id" binding:"omitempty,min=1"`
}

// UpdateItemRequest defines fields allowed to be updated via PATCH /items/:id.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest defines the payload for POST /items/:id/comment.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

type ListItemsRequest struct {
	request.PageParams
}

type SearchItemsRequest struct {
	request.PageParams
	Text string `form:"text"`
}
