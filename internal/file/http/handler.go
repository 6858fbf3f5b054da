package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pastoragenda/backend/internal/auth"
	"github.com/pastoragenda/backend/internal/file"
	"github.com/pastoragenda/backend/internal/pastor"
	"github.com/pastoragenda/backend/internal/pkg/request"
	"github.com/pastoragenda/backend/internal/pkg/response"
)

type Handler struct {
	service file.Service
	pastors pastor.Service
}

func NewHandler(service file.Service, pastors pastor.Service) *Handler {
	return &Handler{service: service, pastors: pastors}
}

// UploadAvatar replaces the authenticated pastor's profile picture. The
// previous avatar file, if any, is removed after the swap.
func (h *Handler) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar form file is required"})
		return
	}

	pastorID := auth.GetPastorID(c)
	current, err := h.pastors.GetByID(c.Request.Context(), pastorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	f, err := h.service.UploadAvatar(c.Request.Context(), header, pastorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if _, err := h.pastors.SetAvatar(c.Request.Context(), pastorID, &f.ID); err != nil {
		_ = h.service.Delete(c.Request.Context(), f.ID)
		response.Error(c, err)
		return
	}

	if current.AvatarFileID != nil {
		_ = h.service.Delete(c.Request.Context(), *current.AvatarFileID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":            f.ID,
		"url":           file.FileURL(f.ID),
		"thumbnail_url": file.ThumbnailURL(f.ID),
	})
}

// DeleteAvatar removes the authenticated pastor's profile picture.
func (h *Handler) DeleteAvatar(c *gin.Context) {
	pastorID := auth.GetPastorID(c)
	current, err := h.pastors.GetByID(c.Request.Context(), pastorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if current.AvatarFileID == nil {
		c.Status(http.StatusNoContent)
		return
	}

	fileID := *current.AvatarFileID
	if _, err := h.pastors.SetAvatar(c.Request.Context(), pastorID, nil); err != nil {
		response.Error(c, err)
		return
	}
	_ = h.service.Delete(c.Request.Context(), fileID)

	c.Status(http.StatusNoContent)
}

// ServeFile streams a stored file inline by ID.
func (h *Handler) ServeFile(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	stream, f, err := h.service.Download(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", f.ContentType)
	c.Header("Content-Disposition", `inline; filename="`+f.Filename+`"`)
	c.Header("Cache-Control", "public, max-age=86400")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started; nothing sensible to send.
		return
	}
}

// ServeThumbnail streams the square avatar rendition. Thumbnails are
// always JPEG regardless of the original format.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	stream, _, err := h.service.DownloadThumbnail(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Header("Cache-Control", "public, max-age=86400")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		return
	}
}
