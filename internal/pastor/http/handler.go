package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/pastor"
	"github.com/pastoragenda/backend/internal/pkg/response"
)

type Handler struct {
	service    pastor.Service
	jwtManager *auth.JWTManager
}

func NewHandler(service pastor.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// Register handles account creation for new pastors.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, err := h.service.Register(c.Request.Context(), pastor.RegisterRequest{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		switch {
		case errors.Is(err, pastor.ErrEmailAlreadyUsed), errors.Is(err, pastor.ErrUsernameAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, pastor.ErrInvalidUsername):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, MeResponse{Pastor: NewPastorResponse(p)})
}

// Login authenticates a pastor and issues an access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, pastor.ErrInactive) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(p.ID, p.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		Pastor:      NewPastorResponse(p),
	})
}

// Me returns the authenticated pastor's account.
func (h *Handler) Me(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), auth.GetPastorID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{Pastor: NewPastorResponse(p)})
}

// UpdateMe updates the authenticated pastor's profile fields.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), auth.GetPastorID(c), pastor.UpdateProfileRequest{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{Pastor: NewPastorResponse(p)})
}

// GetPrefs returns the authenticated pastor's notification preferences.
func (h *Handler) GetPrefs(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), auth.GetPastorID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
		return
	}

	c.JSON(http.StatusOK, p.Prefs)
}

// PutPrefs replaces the authenticated pastor's notification preferences.
func (h *Handler) PutPrefs(c *gin.Context) {
	var req PrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	p, err := h.service.UpdatePrefs(c.Request.Context(), auth.GetPastorID(c), pastor.NotificationPrefs{
		EmailOnBooked:       req.EmailOnBooked,
		EmailOnCancelled:    req.EmailOnCancelled,
		ReminderHoursBefore: req.ReminderHoursBefore,
	})
	if err != nil {
		if errors.Is(err, pastor.ErrInvalidReminder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, p.Prefs)
}

// GetProfile serves the public profile of a pastor by username.
func (h *Handler) GetProfile(c *gin.Context) {
	username := c.Param("username")

	p, err := h.service.GetByUsername(c.Request.Context(), username)
	if err != nil || !p.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "pastor not found"})
		return
	}

	c.JSON(http.StatusOK, NewProfileResponse(p))
}

// List serves the admin listing of accounts.
func (h *Handler) List(c *gin.Context) {
	var req ListPastorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	filter := pastor.Filter{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		IsActive:    req.IsActive,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortBy:      req.SortBy,
	}

	pastors, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list accounts"})
		return
	}

	items := make([]PastorResponse, len(pastors))
	for i, p := range pastors {
		items[i] = NewPastorResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}
