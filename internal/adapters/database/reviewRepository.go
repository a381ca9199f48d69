package database

import (
	"context"

	"postflow/internal/core/outbox"
	"postflow/internal/core/post"
	"postflow/internal/core/review"

	"gorm.io/gorm"
)

type ReviewRepositoryDatabase struct {
	db *gorm.DB
}

func NewReviewRepositoryDatabase(db *gorm.DB) *ReviewRepositoryDatabase {
	return &ReviewRepositoryDatabase{db: db}
}

func (repo *ReviewRepositoryDatabase) Create(ctx context.Context, r *review.Review, events ...*outbox.Message) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return err
		}
		return createEvents(tx, events)
	})
}

// CreateWithTransition appends the review and updates the post in the same transaction.
func (repo *ReviewRepositoryDatabase) CreateWithTransition(ctx context.Context, r *review.Review, postID string, changes post.Changes, events ...*outbox.Message) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return err
		}
		return updatePost(tx, postID, changes, events)
	})
}

func (repo *ReviewRepositoryDatabase) ListByPostID(ctx context.Context, postID string) ([]*review.Review, error) {
	var reviews []*review.Review
	if err := repo.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").Order("id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (repo *ReviewRepositoryDatabase) ListRecentByPostIDs(ctx context.Context, postIDs []string, limit int) ([]*review.Review, error) {
	reviews := []*review.Review{}
	if len(postIDs) == 0 {
		return reviews, nil
	}
	q := repo.db.WithContext(ctx).Where("post_id IN ?", postIDs).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (repo *ReviewRepositoryDatabase) CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID string
		Total  int64
	}
	if err := repo.db.WithContext(ctx).
		Model(&review.Review{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
