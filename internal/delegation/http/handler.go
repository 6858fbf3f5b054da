package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/delegation"
	"github.com/pastoragenda/backend/internal/pkg/response"
)

type Handler struct {
	service delegation.Service
}

func NewHandler(service delegation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	inv, err := h.service.Invite(c.Request.Context(), auth.GetPastorID(c), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewInvitationResponse(inv))
}

func (h *Handler) listWith(c *gin.Context, list func(filter delegation.Filter) ([]*delegation.Invitation, int, error)) {
	var req ListInvitationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	invitations, total, err := list(delegation.Filter{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]InvitationResponse, len(invitations))
	for i, inv := range invitations {
		items[i] = NewInvitationResponse(inv)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) ListSent(c *gin.Context) {
	h.listWith(c, func(filter delegation.Filter) ([]*delegation.Invitation, int, error) {
		return h.service.ListSent(c.Request.Context(), auth.GetPastorID(c), filter)
	})
}

func (h *Handler) ListReceived(c *gin.Context) {
	h.listWith(c, func(filter delegation.Filter) ([]*delegation.Invitation, int, error) {
		return h.service.ListReceived(c.Request.Context(), auth.GetPastorEmail(c), filter)
	})
}

func (h *Handler) respond(c *gin.Context, accept bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	inv, err := h.service.Respond(c.Request.Context(), id, auth.GetPastorEmail(c), accept)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewInvitationResponse(inv))
}

func (h *Handler) Accept(c *gin.Context) {
	h.respond(c, true)
}

func (h *Handler) Decline(c *gin.Context) {
	h.respond(c, false)
}

func (h *Handler) Revoke(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Revoke(c.Request.Context(), id, auth.GetPastorID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
