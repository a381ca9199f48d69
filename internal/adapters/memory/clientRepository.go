package memory

import (
	"context"
	"sort"

	"postflow/internal/core/client"
)

type ClientRepository struct{ store *Store }

func NewClientRepository(store *Store) *ClientRepository {
	return &ClientRepository{store: store}
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) (*client.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.slugTaken(c.Slug, c.ID.String()) {
		return nil, client.ErrSlugTaken
	}
	r.store.clients = append(r.store.clients, copyClient(c))
	return c, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.slugTaken(c.Slug, c.ID.String()) {
		return client.ErrSlugTaken
	}
	for i, existing := range r.store.clients {
		if existing.ID == c.ID {
			r.store.clients[i] = copyClient(c)
			return nil
		}
	}
	return client.ErrNotFound
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, existing := range r.store.clients {
		if existing.ID.String() == id {
			r.store.clients = append(r.store.clients[:i], r.store.clients[i+1:]...)
			return nil
		}
	}
	return client.ErrNotFound
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*client.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.clients {
		if c.ID.String() == id {
			return copyClient(c), nil
		}
	}
	return nil, client.ErrNotFound
}

func (r *ClientRepository) FindBySlug(ctx context.Context, slug string) (*client.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.clients {
		if c.Slug == slug {
			return copyClient(c), nil
		}
	}
	return nil, client.ErrNotFound
}

func (r *ClientRepository) FindByOwner(ctx context.Context, ownerID string) ([]*client.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := []*client.Client{}
	for i := len(r.store.clients) - 1; i >= 0; i-- {
		if c := r.store.clients[i]; c.OwnerID.String() == ownerID {
			out = append(out, copyClient(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ClientRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.slugTaken(slug, excludeID), nil
}

// slugTaken mirrors the unique index on clients.slug. Callers hold the lock.
func (r *ClientRepository) slugTaken(slug, excludeID string) bool {
	for _, c := range r.store.clients {
		if c.Slug == slug && c.ID.String() != excludeID {
			return true
		}
	}
	return false
}
