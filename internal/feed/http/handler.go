package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/feed"
	"github.com/pastoragenda/backend/internal/pkg/response"
)

type Handler struct {
	service feed.Service
}

func NewHandler(service feed.Service) *Handler {
	return &Handler{service: service}
}

// Agenda serves the requester's agenda as an iCalendar file. A delegate
// passes ?pastor_id= to export an owner's agenda instead.
func (h *Handler) Agenda(c *gin.Context) {
	requesterID := auth.GetPastorID(c)
	pastorID := c.Query("pastor_id")
	if pastorID == "" {
		pastorID = requesterID
	}

	calendar, err := h.service.Agenda(c.Request.Context(), requesterID, pastorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="agenda.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar))
}

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/me/agenda.ics", authMiddleware, h.Agenda)
}
