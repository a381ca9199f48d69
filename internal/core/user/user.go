package user

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrValidation         = errors.New("invalid user")
)

type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36)"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"type:varchar(255);unique;not null"`
	Password  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
