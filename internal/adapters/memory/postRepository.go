package memory

import (
	"context"
	"sort"

	"postflow/internal/core/outbox"
	"postflow/internal/core/post"
	postPort "postflow/internal/ports/post"
)

type PostRepository struct{ store *Store }

func NewPostRepository(store *Store) *PostRepository {
	return &PostRepository{store: store}
}

func (r *PostRepository) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.posts[p.ID.String()] = copyPost(p)
	return p, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*post.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	return copyPost(p), nil
}

func (r *PostRepository) FindByOwner(ctx context.Context, ownerID string, filter postPort.Filter) ([]*post.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var posts []*post.Post
	for _, p := range r.store.posts {
		if p.OwnerID.String() == ownerID && filter.Matches(p) {
			posts = append(posts, copyPost(p))
		}
	}
	sortPosts(posts, filter.Order)
	if filter.Limit > 0 && len(posts) > filter.Limit {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

func (r *PostRepository) FindByClientID(ctx context.Context, clientID string) ([]*post.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var posts []*post.Post
	for _, p := range r.store.posts {
		if p.ClientID != nil && p.ClientID.String() == clientID {
			posts = append(posts, copyPost(p))
		}
	}
	sortPosts(posts, postPort.OrderPublishDesc)
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, id string, changes post.Changes, events ...*outbox.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.posts[id]
	if !ok {
		return post.ErrNotFound
	}
	changes.Apply(p)
	r.store.appendEvents(events)
	return nil
}

// sortPosts breaks ties on id so map iteration order never leaks out.
func sortPosts(posts []*post.Post, order postPort.Order) {
	sort.Slice(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		switch order {
		case postPort.OrderPublishAsc:
			if !a.PublishDate.Equal(b.PublishDate) {
				return a.PublishDate.Before(b.PublishDate)
			}
		case postPort.OrderCreatedDesc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		default:
			if !a.PublishDate.Equal(b.PublishDate) {
				return a.PublishDate.After(b.PublishDate)
			}
		}
		return a.ID.String() < b.ID.String()
	})
}
