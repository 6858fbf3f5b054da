package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/delegations")
	group.Use(authMiddleware)
	{
		group.POST("", h.Invite)
		group.GET("/sent", h.ListSent)
		group.GET("/received", h.ListReceived)
		group.POST("/:id/accept", h.Accept)
		group.POST("/:id/decline", h.Decline)
		group.DELETE("/:id", h.Revoke)
	}
}
