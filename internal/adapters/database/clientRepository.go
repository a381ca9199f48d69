package database

import (
	"context"
	"errors"

	"postflow/internal/core/client"

	"gorm.io/gorm"
)

type ClientRepositoryDatabase struct {
	db *gorm.DB
}

func NewClientRepositoryDatabase(db *gorm.DB) *ClientRepositoryDatabase {
	return &ClientRepositoryDatabase{db: db}
}

func (repo *ClientRepositoryDatabase) Create(ctx context.Context, c *client.Client) (*client.Client, error) {
	if err := repo.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, client.ErrSlugTaken
		}
		return nil, err
	}
	return c, nil
}

func (repo *ClientRepositoryDatabase) Update(ctx context.Context, c *client.Client) error {
	// struct updates keep the json serializer for services
	res := repo.db.WithContext(ctx).Model(c).
		Select("company_name", "email", "services", "notes", "logo_url", "slug", "updated_at").
		Updates(c)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return client.ErrSlugTaken
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return client.ErrNotFound
	}
	return nil
}

func (repo *ClientRepositoryDatabase) Delete(ctx context.Context, id string) error {
	res := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&client.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return client.ErrNotFound
	}
	return nil
}

func (repo *ClientRepositoryDatabase) FindByID(ctx context.Context, id string) (*client.Client, error) {
	return repo.first(repo.db.WithContext(ctx).Where("id = ?", id))
}

func (repo *ClientRepositoryDatabase) FindBySlug(ctx context.Context, slug string) (*client.Client, error) {
	return repo.first(repo.db.WithContext(ctx).Where("slug = ?", slug))
}

func (repo *ClientRepositoryDatabase) FindByOwner(ctx context.Context, ownerID string) ([]*client.Client, error) {
	var clients []*client.Client
	if err := repo.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (repo *ClientRepositoryDatabase) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	q := repo.db.WithContext(ctx).Model(&client.Client{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *ClientRepositoryDatabase) first(q *gorm.DB) (*client.Client, error) {
	var c client.Client
	if err := q.First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, client.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
