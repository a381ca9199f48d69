package user

import (
	"context"

	"postflow/internal/core/user"
)

// UserRepository is the port for staff accounts.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// DTOs for the use cases
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
