package database

import (
	"context"
	"errors"

	"postflow/internal/core/user"

	"gorm.io/gorm"
)

// UserRepositoryDatabase implements UserRepository on gorm
type UserRepositoryDatabase struct {
	db *gorm.DB
}

func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, user.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
