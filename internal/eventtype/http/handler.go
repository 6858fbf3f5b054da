package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/eventtype"
	"github.com/pastoragenda/backend/internal/pkg/request"
	"github.com/pastoragenda/backend/internal/pkg/response"
)

type Handler struct {
	service eventtype.Service
}

func NewHandler(service eventtype.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEventTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	et, err := h.service.Create(c.Request.Context(), auth.GetPastorID(c), eventtype.CreateRequest{
		Slug:            req.Slug,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Availability:    toWeekly(req.Availability),
		Questions:       toQuestions(req.Questions),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewEventTypeResponse(et))
}

func (h *Handler) List(c *gin.Context) {
	var req ListEventTypesRequest
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

	requesterID := auth.GetPastorID(c)
	pastorID := req.PastorID
	if pastorID == "" {
		pastorID = requesterID
	}

	eventTypes, total, err := h.service.ListFor(c.Request.Context(), requesterID, pastorID, eventtype.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EventTypeResponse, len(eventTypes))
	for i, et := range eventTypes {
		items[i] = NewEventTypeResponse(et)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	et, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if et.PastorID != auth.GetPastorID(c) {
		response.Error(c, eventtype.ErrPermissionDenied)
		return
	}

	c.JSON(http.StatusOK, NewEventTypeResponse(et))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req UpdateEventTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	update := eventtype.UpdateRequest{
		Slug:            req.Slug,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		IsActive:        req.IsActive,
	}
	if req.Availability != nil {
		weekly := toWeekly(*req.Availability)
		update.Availability = &weekly
	}
	if req.Questions != nil {
		questions := toQuestions(*req.Questions)
		update.Questions = &questions
	}

	et, err := h.service.Update(c.Request.Context(), uri.ID, auth.GetPastorID(c), update)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEventTypeResponse(et))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID, auth.GetPastorID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPublic serves the unauthenticated profile page listing of a
// pastor's active event types.
func (h *Handler) ListPublic(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}

	eventTypes, total, err := h.service.ListPublic(c.Request.Context(), c.Param("username"), params.Page, params.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EventTypeResponse, len(eventTypes))
	for i, et := range eventTypes {
		items[i] = NewEventTypeResponse(et)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}

// GetPublic serves the unauthenticated booking page's event type lookup.
func (h *Handler) GetPublic(c *gin.Context) {
	et, err := h.service.GetPublic(c.Request.Context(), c.Param("username"), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEventTypeResponse(et))
}
