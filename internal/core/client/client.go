package client

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

var (
	ErrNotFound   = errors.New("client not found")
	ErrSlugTaken  = errors.New("slug already in use")
	ErrValidation = errors.New("invalid client")
)

// Client is an agency customer. Its slug forms the public review URL.
type Client struct {
	ID          uuid.UUID `gorm:"primaryKey;type:char(36)"`
	OwnerID     uuid.UUID `gorm:"column:user_id;type:char(36);not null;index"`
	CompanyName string    `gorm:"type:varchar(255);not null"`
	Email       string    `gorm:"type:varchar(255)"`
	Services    []string  `gorm:"serializer:json;type:text"`
	Notes       string    `gorm:"type:text"`
	LogoURL     string    `gorm:"type:varchar(1024)"`
	Slug        string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
