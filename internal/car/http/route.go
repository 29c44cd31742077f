package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers car-related routes. Cars are read-only over HTTP.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/cars")
	{
		group.GET("", h.List)    // List cars
		group.GET("/:id", h.Get) // Get car details
	}
}
