package memory

import (
	"context"

	"postflow/internal/core/file"

	"github.com/gofrs/uuid"
)

type FileRepository struct{ store *Store }

func NewFileRepository(store *Store) *FileRepository {
	return &FileRepository{store: store}
}

func (r *FileRepository) Create(ctx context.Context, f *file.File) (*file.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.files = append(r.store.files, copyFile(f))
	return f, nil
}

func (r *FileRepository) FindByID(ctx context.Context, id string) (*file.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, f := range r.store.files {
		if f.ID.String() == id {
			return copyFile(f), nil
		}
	}
	return nil, file.ErrNotFound
}

func (r *FileRepository) LinkToPost(ctx context.Context, fileID, postID string) error {
	pid, err := uuid.FromString(postID)
	if err != nil {
		return file.ErrValidation
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, f := range r.store.files {
		if f.ID.String() == fileID {
			f.PostID = &pid
			return nil
		}
	}
	return file.ErrNotFound
}

// LatestByPostID prefers the newest file; on equal timestamps the later upload wins.
func (r *FileRepository) LatestByPostID(ctx context.Context, postID string) (*file.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var latest *file.File
	for _, f := range r.store.files {
		if f.PostID == nil || f.PostID.String() != postID {
			continue
		}
		if latest == nil || !f.CreatedAt.Before(latest.CreatedAt) {
			latest = f
		}
	}
	if latest == nil {
		return nil, file.ErrNotFound
	}
	return copyFile(latest), nil
}
