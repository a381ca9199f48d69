package review

import (
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

var (
	ErrEmptyMessage  = errors.New("empty review message")
	ErrInvalidAuthor = errors.New("invalid review author")
)

type AuthorType string

const (
	AuthorUser   AuthorType = "user"
	AuthorClient AuthorType = "client"
)

func (a AuthorType) Valid() bool {
	return a == AuthorUser || a == AuthorClient
}

// Review is one entry of the append-only conversation attached to a post.
type Review struct {
	ID         uuid.UUID  `gorm:"primaryKey;type:char(36)"`
	PostID     uuid.UUID  `gorm:"type:char(36);not null;index"`
	Message    string     `gorm:"type:text;not null"`
	AuthorType AuthorType `gorm:"type:varchar(10);not null"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index"`
}

func (Review) TableName() string {
	return "post_reviews"
}

// NormalizeMessage trims the message and rejects blank input.
func NormalizeMessage(message string) (string, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return "", ErrEmptyMessage
	}
	return text, nil
}
