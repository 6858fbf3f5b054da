package file

import (
	"net/http"
	"time"

	"github.com/pastoragenda/backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "file not found")
	ErrNotAnImage  = apperror.New(http.StatusBadRequest, "avatar must be an image")
	ErrTooLarge    = apperror.New(http.StatusRequestEntityTooLarge, "file exceeds the size limit")
	ErrNoThumbnail = apperror.New(http.StatusNotFound, "no thumbnail for this file")
)

// File is the stored metadata of one uploaded blob.
type File struct {
	ID            string    `json:"id"`
	PastorID      string    `json:"pastor_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"`
	ThumbnailPath *string   `json:"-"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// FileURL returns the public URL serving the file by ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL serving the file's thumbnail.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
