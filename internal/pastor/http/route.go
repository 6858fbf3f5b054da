package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all account-related routes (including Auth).
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Public Routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
	g.GET("/pastors/:username", h.GetProfile)

	// Authenticated Routes
	me := g.Group("/me", authMiddleware)
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
		me.GET("/preferences", h.GetPrefs)
		me.PUT("/preferences", h.PutPrefs)
	}

	// Admin Routes
	accounts := g.Group("/accounts")
	accounts.Use(authMiddleware, adminMiddleware)
	{
		accounts.GET("", h.List)
	}
}
