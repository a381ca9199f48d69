package reviewapp

import (
	"context"
	"fmt"
	"time"

	"postflow/internal/auth"
	"postflow/internal/core/outbox"
	postEntity "postflow/internal/core/post"
	reviewEntity "postflow/internal/core/review"
	postPort "postflow/internal/ports/post"
	reviewPort "postflow/internal/ports/review"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ReviewService owns the review log. Appending a review never touches the post,
// except through RequestAdjustment which does both writes in one transaction.
type ReviewService struct {
	ReviewRepository reviewPort.ReviewRepository
	PostRepository   postPort.PostRepository
	Logger           *zap.Logger
	now              func() time.Time
}

func NewReviewService(reviewRepo reviewPort.ReviewRepository, postRepo postPort.PostRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		ReviewRepository: reviewRepo,
		PostRepository:   postRepo,
		Logger:           logger,
		now:              time.Now,
	}
}

// SubmitReviewMessage appends a review to the post. Blank messages are rejected before any read or write.
func (s *ReviewService) SubmitReviewMessage(ctx context.Context, postID, message string, author reviewEntity.AuthorType) (*reviewPort.ReviewDTO, error) {
	text, err := reviewEntity.NormalizeMessage(message)
	if err != nil {
		return nil, err
	}
	if !author.Valid() {
		return nil, reviewEntity.ErrInvalidAuthor
	}

	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.append(ctx, p, text, author)
}

// SubmitStaffReview is SubmitReviewMessage for the post owner.
func (s *ReviewService) SubmitStaffReview(ctx context.Context, cu auth.CurrentUser, postID, message string) (*reviewPort.ReviewDTO, error) {
	text, err := reviewEntity.NormalizeMessage(message)
	if err != nil {
		return nil, err
	}
	p, err := s.ownedPost(ctx, cu, postID)
	if err != nil {
		return nil, err
	}
	return s.append(ctx, p, text, reviewEntity.AuthorUser)
}

// ListReviews returns the owner's post history, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, cu auth.CurrentUser, postID string) ([]*reviewPort.ReviewDTO, error) {
	if _, err := s.ownedPost(ctx, cu, postID); err != nil {
		return nil, err
	}
	return s.list(ctx, postID)
}

// ListPublicReviews serves the history shown on the client review page.
func (s *ReviewService) ListPublicReviews(ctx context.Context, postID string) ([]*reviewPort.ReviewDTO, error) {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.list(ctx, postID)
}

// RequestAdjustment records the message and moves the post to em_revisao atomically.
func (s *ReviewService) RequestAdjustment(ctx context.Context, postID, message string, actor postEntity.Actor) (*reviewPort.AdjustmentDTO, error) {
	text, err := reviewEntity.NormalizeMessage(message)
	if err != nil {
		return nil, err
	}

	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	to := postEntity.StatusInReview
	if !postEntity.CanTransition(actor, p.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", postEntity.ErrTransitionNotAllowed, p.Status, to)
	}

	author := reviewEntity.AuthorUser
	if actor == postEntity.ActorClient {
		author = reviewEntity.AuthorClient
	}

	now := s.now()
	r := &reviewEntity.Review{
		ID:         uuid.Must(uuid.NewV4()),
		PostID:     p.ID,
		Message:    text,
		AuthorType: author,
		CreatedAt:  now,
	}
	reviewEvent, err := outbox.New(p.ID, outbox.Event{Type: outbox.TypeReviewAdded, ReviewID: r.ID.String(), Actor: string(author), OccurredAt: now})
	if err != nil {
		return nil, err
	}
	statusEvent, err := outbox.New(p.ID, outbox.Event{Type: outbox.TypeStatusChanged, Status: string(to), Actor: string(actor), OccurredAt: now})
	if err != nil {
		return nil, err
	}

	changes := postEntity.Changes{Status: &to, UpdatedAt: now}
	if err := s.ReviewRepository.CreateWithTransition(ctx, r, postID, changes, reviewEvent, statusEvent); err != nil {
		s.Logger.Error("adjustment request failed", zap.String("post", postID), zap.Error(err))
		return nil, fmt.Errorf("failed to request adjustment: %w", err)
	}

	s.Logger.Info("adjustment requested", zap.String("post", postID), zap.String("actor", string(actor)))
	return &reviewPort.AdjustmentDTO{Review: reviewPort.NewReviewDTO(r), Status: string(to)}, nil
}

func (s *ReviewService) append(ctx context.Context, p *postEntity.Post, text string, author reviewEntity.AuthorType) (*reviewPort.ReviewDTO, error) {
	now := s.now()
	r := &reviewEntity.Review{
		ID:         uuid.Must(uuid.NewV4()),
		PostID:     p.ID,
		Message:    text,
		AuthorType: author,
		CreatedAt:  now,
	}
	ev, err := outbox.New(p.ID, outbox.Event{Type: outbox.TypeReviewAdded, ReviewID: r.ID.String(), Actor: string(author), OccurredAt: now})
	if err != nil {
		return nil, err
	}

	if err := s.ReviewRepository.Create(ctx, r, ev); err != nil {
		s.Logger.Error("failed to add review", zap.String("post", p.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to add review: %w", err)
	}
	s.Logger.Info("review added", zap.String("post", p.ID.String()), zap.String("author", string(author)))
	return reviewPort.NewReviewDTO(r), nil
}

func (s *ReviewService) list(ctx context.Context, postID string) ([]*reviewPort.ReviewDTO, error) {
	reviews, err := s.ReviewRepository.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	out := make([]*reviewPort.ReviewDTO, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewPort.NewReviewDTO(r))
	}
	return out, nil
}

func (s *ReviewService) ownedPost(ctx context.Context, cu auth.CurrentUser, id string) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != cu.ID {
		return nil, postEntity.ErrNotFound
	}
	return p, nil
}
