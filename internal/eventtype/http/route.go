package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Public booking-page lookups.
	g.GET("/pastors/:username/event-types", h.ListPublic)
	g.GET("/pastors/:username/event-types/:slug", h.GetPublic)

	group := g.Group("/event-types")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}
