package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pastoragenda/backend/internal/pkg/storage"
)

// Avatars are small portraits; anything above this is rejected outright.
const maxUploadBytes = 5 << 20

const thumbnailSize = 200

type Service interface {
	// UploadAvatar stores a pastor's portrait image and a square
	// thumbnail rendition. Only image uploads are accepted.
	UploadAvatar(ctx context.Context, header *multipart.FileHeader, pastorID string) (*File, error)
	Get(ctx context.Context, id string) (*File, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) UploadAvatar(ctx context.Context, header *multipart.FileHeader, pastorID string) (*File, error) {
	if header.Size > maxUploadBytes {
		return nil, ErrTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffered so the bytes can be read twice: once for the original,
	// once for the thumbnail.
	fileBytes, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file content: %w", err)
	}
	if int64(len(fileBytes)) > maxUploadBytes {
		return nil, ErrTooLarge
	}

	fileID := uuid.New().String()
	shard := fileID[:2]
	ext := strings.ToLower(filepath.Ext(header.Filename))
	storagePath := fmt.Sprintf("avatars/%s/%s%s", shard, fileID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("save file to storage: %w", err)
	}

	var thumbnailPath *string
	thumbReader, err := s.imgProc.SquareThumbnail(bytes.NewReader(fileBytes), thumbnailSize)
	if err != nil {
		// An undecodable image still gets stored as-is.
		log.Printf("thumbnail generation failed for %s: %v", fileID, err)
	} else {
		tPath := fmt.Sprintf("avatars/%s/%s_thumb.jpg", shard, fileID)
		if err := s.storage.Save(ctx, tPath, thumbReader); err != nil {
			log.Printf("thumbnail save failed for %s: %v", fileID, err)
		} else {
			thumbnailPath = &tPath
		}
	}

	f := &File{
		ID:            fileID,
		PastorID:      pastorID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(fileBytes)),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}
	return f, nil
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_ = s.storage.Delete(ctx, f.StoragePath)
	if f.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *f.ThumbnailPath)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, f.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve file from storage: %w", err)
	}
	return stream, f, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *f.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve thumbnail from storage: %w", err)
	}
	return stream, f, nil
}
