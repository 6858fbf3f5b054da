package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/booking"
	"github.com/pastoragenda/backend/internal/pkg/request"
	"github.com/pastoragenda/backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// Create handles the public booking submission. No authentication: the
// booker is a visitor identified only by name and email.
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	answers := make([]booking.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = booking.Answer{Label: a.Label, Value: a.Value}
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		Username:    req.Username,
		EventSlug:   req.EventSlug,
		StartTime:   req.StartTime,
		BookerName:  req.BookerName,
		BookerEmail: req.BookerEmail,
		Answers:     answers,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Slots serves the public booking page's availability for one day.
func (h *Handler) Slots(c *gin.Context) {
	var req SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required in YYYY-MM-DD format"})
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required in YYYY-MM-DD format"})
		return
	}

	slots, err := h.service.Slots(c.Request.Context(), c.Param("username"), c.Param("slug"), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewSlotResponse(s)
	}

	c.JSON(http.StatusOK, gin.H{"date": req.Date, "slots": items})
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
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

	bookings, total, err := h.service.List(c.Request.Context(), auth.GetPastorID(c), booking.Filter{
		PastorID:    req.PastorID,
		EventTypeID: req.EventTypeID,
		Status:      req.Status,
		StartTime:   req.From,
		EndTime:     req.To,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.Get(c.Request.Context(), req.ID, auth.GetPastorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), req.ID, auth.GetPastorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
