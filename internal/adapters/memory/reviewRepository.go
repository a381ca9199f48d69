package memory

import (
	"context"
	"sort"

	"postflow/internal/core/outbox"
	"postflow/internal/core/post"
	"postflow/internal/core/review"
)

type ReviewRepository struct{ store *Store }

func NewReviewRepository(store *Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review, events ...*outbox.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *rv
	r.store.reviews = append(r.store.reviews, &cp)
	r.store.appendEvents(events)
	return nil
}

func (r *ReviewRepository) CreateWithTransition(ctx context.Context, rv *review.Review, postID string, changes post.Changes, events ...*outbox.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.posts[postID]
	if !ok {
		return post.ErrNotFound
	}
	cp := *rv
	r.store.reviews = append(r.store.reviews, &cp)
	changes.Apply(p)
	r.store.appendEvents(events)
	return nil
}

func (r *ReviewRepository) ListByPostID(ctx context.Context, postID string) ([]*review.Review, error) {
	return r.ListRecentByPostIDs(ctx, []string{postID}, 0)
}

// ListRecentByPostIDs returns newest first; limit <= 0 means no limit.
func (r *ReviewRepository) ListRecentByPostIDs(ctx context.Context, postIDs []string, limit int) ([]*review.Review, error) {
	want := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := []*review.Review{}
	for i := len(r.store.reviews) - 1; i >= 0; i-- {
		rv := r.store.reviews[i]
		if want[rv.PostID.String()] {
			cp := *rv
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReviewRepository) CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	want := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, rv := range r.store.reviews {
		if id := rv.PostID.String(); want[id] {
			counts[id]++
		}
	}
	return counts, nil
}
