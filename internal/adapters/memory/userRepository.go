package memory

import (
	"context"

	"postflow/internal/core/user"
)

type UserRepository struct{ store *Store }

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == u.Email {
			return nil, user.ErrEmailTaken
		}
	}
	cp := *u
	r.store.users[u.ID.String()] = &cp
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}
