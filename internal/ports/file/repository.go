package file

import (
	"context"

	"postflow/internal/core/file"
)

// FileRepository is the port for media file metadata.
type FileRepository interface {
	Create(ctx context.Context, f *file.File) (*file.File, error)
	FindByID(ctx context.Context, id string) (*file.File, error)
	LinkToPost(ctx context.Context, fileID, postID string) error
	LatestByPostID(ctx context.Context, postID string) (*file.File, error)
}

type FileDTO struct {
	ID          string `json:"id"`
	Bucket      string `json:"bucket"`
	Path        string `json:"path"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	SignedURL   string `json:"signedUrl,omitempty"`
}
