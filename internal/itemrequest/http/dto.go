package http

import (
	"time"

	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// CreateRequestBody defines the payload for POST /requests.
type CreateRequestBody struct {
	Description string `json:"description"`
}

type ListOthersRequest struct {
	request.PageParams
}

type RequestResponse struct {
	ID          int64                   `json:"id"`
	Description string                  `json:"description"`
	RequesterID int64                   `json:"requester_id"`
	Created     time.Time               `json:"created"`
	Items       []itemHttp.ItemResponse `json:"items"`
}

func NewRequestResponse(r *itemrequest.Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		RequesterID: r.RequesterID,
		Created:     r.CreatedAt,
		Items:       []itemHttp.ItemResponse{},
	}
}

func NewRequestWithItemsResponse(w *itemrequest.WithItems) RequestResponse {
	resp := NewRequestResponse(w.Request)
	for _, it := range w.Items {
		resp.Items = append(resp.Items, itemHttp.NewItemResponse(it))
	}
	return resp
}
