package review

import (
	"context"
	"time"

	"postflow/internal/core/outbox"
	"postflow/internal/core/post"
	"postflow/internal/core/review"
)

// ReviewRepository is the port for the append-only review log.
type ReviewRepository interface {
	Create(ctx context.Context, r *review.Review, events ...*outbox.Message) error
	// CreateWithTransition appends the review and applies the post changes in one transaction.
	CreateWithTransition(ctx context.Context, r *review.Review, postID string, changes post.Changes, events ...*outbox.Message) error
	ListByPostID(ctx context.Context, postID string) ([]*review.Review, error)
	ListRecentByPostIDs(ctx context.Context, postIDs []string, limit int) ([]*review.Review, error)
	CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
}

type ReviewDTO struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	Message    string    `json:"message"`
	AuthorType string    `json:"author_type"`
	CreatedAt  time.Time `json:"created_at"`
}

type AdjustmentDTO struct {
	Review *ReviewDTO `json:"review"`
	Status string     `json:"status"`
}

func NewReviewDTO(r *review.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:         r.ID.String(),
		PostID:     r.PostID.String(),
		Message:    r.Message,
		AuthorType: string(r.AuthorType),
		CreatedAt:  r.CreatedAt,
	}
}
