package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/pastor"
)

// RequireSystemAdmin ensures the authenticated pastor is a system admin.
// It MUST run after auth.AuthRequired.
func RequireSystemAdmin(pastorService pastor.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		pastorID := auth.GetPastorID(c)
		if pastorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		p, err := pastorService.GetByID(c.Request.Context(), pastorID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
			return
		}
		if !p.IsSystemAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: system admin access required"})
			return
		}

		c.Next()
	}
}
