package fileapp

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"postflow/internal/auth"
	fileEntity "postflow/internal/core/file"
	filePort "postflow/internal/ports/file"
	storagePort "postflow/internal/ports/storage"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const (
	// SignedURLTTL is how long a signed media URL stays valid.
	SignedURLTTL = 24 * time.Hour
	// cached URLs always keep at least SignedURLTTL-urlCacheTTL of validity
	urlCacheTTL = time.Hour
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// FileService uploads media to object storage and signs URLs for it.
type FileService struct {
	FileRepository filePort.FileRepository
	Store          storagePort.MediaStore
	Cache          storagePort.URLCache // optional
	Bucket         string
	Logger         *zap.Logger
	now            func() time.Time
}

func NewFileService(repo filePort.FileRepository, store storagePort.MediaStore, cache storagePort.URLCache, bucket string, logger *zap.Logger) *FileService {
	return &FileService{
		FileRepository: repo,
		Store:          store,
		Cache:          cache,
		Bucket:         bucket,
		Logger:         logger,
		now:            time.Now,
	}
}

// Upload stores the bytes under {owner}/{unix millis}_{safe name} and records the reference.
func (s *FileService) Upload(ctx context.Context, cu auth.CurrentUser, name string, size int64, contentType string, body io.Reader) (*filePort.FileDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" || size <= 0 {
		return nil, fmt.Errorf("%w: empty upload", fileEntity.ErrValidation)
	}

	now := s.now()
	path := fmt.Sprintf("%s/%d_%s", cu.ID.String(), now.UnixMilli(), SafeName(name))
	if err := s.Store.Upload(ctx, s.Bucket, path, body, contentType); err != nil {
		s.Logger.Error("upload failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	f, err := s.FileRepository.Create(ctx, &fileEntity.File{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     cu.ID,
		Bucket:      s.Bucket,
		Path:        path,
		Name:        name,
		Size:        size,
		ContentType: contentType,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	dto := &filePort.FileDTO{
		ID:          f.ID.String(),
		Bucket:      f.Bucket,
		Path:        f.Path,
		Name:        f.Name,
		Size:        f.Size,
		ContentType: f.ContentType,
	}
	if url, err := s.SignedURL(ctx, f.Bucket, f.Path); err == nil {
		dto.SignedURL = url
	} else {
		s.Logger.Warn("could not sign uploaded file", zap.String("path", path), zap.Error(err))
	}
	return dto, nil
}

// SignedURL returns a URL valid for SignedURLTTL, reusing a cached one when possible.
func (s *FileService) SignedURL(ctx context.Context, bucket, path string) (string, error) {
	key := bucket + "/" + path
	if s.Cache != nil {
		url, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			s.Logger.Warn("signed url cache read failed", zap.Error(err))
		} else if ok {
			return url, nil
		}
	}

	url, err := s.Store.SignedURL(ctx, bucket, path, SignedURLTTL)
	if err != nil {
		return "", err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, url, urlCacheTTL); err != nil {
			s.Logger.Warn("signed url cache write failed", zap.Error(err))
		}
	}
	return url, nil
}

// SafeName replaces every character outside [a-zA-Z0-9_.-] with an underscore.
func SafeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}
