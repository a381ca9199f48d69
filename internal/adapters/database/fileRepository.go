package database

import (
	"context"
	"errors"

	"postflow/internal/core/file"

	"gorm.io/gorm"
)

type FileRepositoryDatabase struct {
	db *gorm.DB
}

func NewFileRepositoryDatabase(db *gorm.DB) *FileRepositoryDatabase {
	return &FileRepositoryDatabase{db: db}
}

func (repo *FileRepositoryDatabase) Create(ctx context.Context, f *file.File) (*file.File, error) {
	if err := repo.db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func (repo *FileRepositoryDatabase) FindByID(ctx context.Context, id string) (*file.File, error) {
	var f file.File
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, file.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (repo *FileRepositoryDatabase) LinkToPost(ctx context.Context, fileID, postID string) error {
	res := repo.db.WithContext(ctx).Model(&file.File{}).Where("id = ?", fileID).Update("post_id", postID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return file.ErrNotFound
	}
	return nil
}

func (repo *FileRepositoryDatabase) LatestByPostID(ctx context.Context, postID string) (*file.File, error) {
	var f file.File
	if err := repo.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at DESC").First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, file.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}
