package request

import "github.com/nekogravitycat/shareit-backend/internal/pkg/page"

// ByIDRequest is a common struct for endpoints that require a numeric ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// PageParams holds the optional from/size query parameters of list endpoints.
type PageParams struct {
	From *int `form:"from"`
	Size *int `form:"size"`
}

// Page validates the parameters and converts them to an offset/limit window.
func (p PageParams) Page() (page.Page, error) {
	return page.New(p.From, p.Size)
}
