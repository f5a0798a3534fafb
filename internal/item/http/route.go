package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers item-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, userMiddleware gin.HandlerFunc) {
	group := g.Group("/items")

	group.Use(userMiddleware)
	{
		group.POST("", h.Create)                 // List an item
		group.GET("", h.ListOwn)                 // Caller's items with bookings
		group.GET("/search", h.Search)           // Available items matching text
		group.GET("/:id", h.Get)                 // Item details
		group.PATCH("/:id", h.Update)            // Owner only
		group.POST("/:id/comment", h.AddComment) // Past borrowers only
		group.POST("/:id/photo", h.UploadPhoto)  // Owner only
	}
}
