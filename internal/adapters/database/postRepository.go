package database

import (
	"context"
	"errors"

	"postflow/internal/core/outbox"
	"postflow/internal/core/post"
	postPort "postflow/internal/ports/post"

	"gorm.io/gorm"
)

// PostRepositoryDatabase implements PostRepository on gorm
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, post.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindByOwner(ctx context.Context, ownerID string, filter postPort.Filter) ([]*post.Post, error) {
	q := repo.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if filter.From != nil {
		q = q.Where("publish_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("publish_date < ?", *filter.To)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SocialNetwork != "" {
		q = q.Where("social_network = ?", filter.SocialNetwork)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	switch filter.ClientID {
	case "":
	case postPort.NoClient:
		q = q.Where("client_id IS NULL")
	default:
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var posts []*post.Post
	if err := q.Order(orderClause(filter.Order)).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) FindByClientID(ctx context.Context, clientID string) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order(orderClause(postPort.OrderPublishDesc)).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Update writes the changed columns and the outbox rows in one transaction.
func (repo *PostRepositoryDatabase) Update(ctx context.Context, id string, changes post.Changes, events ...*outbox.Message) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updatePost(tx, id, changes, events)
	})
}

func updatePost(tx *gorm.DB, id string, changes post.Changes, events []*outbox.Message) error {
	var count int64
	if err := tx.Model(&post.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return post.ErrNotFound
	}
	if err := tx.Model(&post.Post{}).Where("id = ?", id).Updates(changes.Columns()).Error; err != nil {
		return err
	}
	return createEvents(tx, events)
}

func createEvents(tx *gorm.DB, events []*outbox.Message) error {
	for _, ev := range events {
		if ev == nil {
			continue
		}
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
	}
	return nil
}

func orderClause(order postPort.Order) string {
	switch order {
	case postPort.OrderPublishAsc:
		return "publish_date ASC, id ASC"
	case postPort.OrderCreatedDesc:
		return "created_at DESC, id ASC"
	default:
		return "publish_date DESC, id ASC"
	}
}
