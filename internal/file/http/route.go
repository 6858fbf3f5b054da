package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Avatars are public: profile pages embed them without auth.
	g.GET("/files/:id", h.ServeFile)
	g.GET("/files/:id/thumbnail", h.ServeThumbnail)

	g.POST("/me/avatar", authMiddleware, h.UploadAvatar)
	g.DELETE("/me/avatar", authMiddleware, h.DeleteAvatar)
}
