package auth

import "github.com/gin-gonic/gin"

// GetPastorID returns the authenticated pastor's ID or empty string.
func GetPastorID(c *gin.Context) string {
	if v, ok := c.Get("pastorID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetPastorEmail returns the authenticated pastor's email or empty string.
func GetPastorEmail(c *gin.Context) string {
	if v, ok := c.Get("pastorEmail"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
