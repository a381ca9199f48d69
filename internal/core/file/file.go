package file

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

var (
	ErrNotFound   = errors.New("file not found")
	ErrValidation = errors.New("invalid file")
)

// File references an object in media storage. Bytes never pass through the database.
type File struct {
	ID          uuid.UUID  `gorm:"primaryKey;type:char(36)"`
	OwnerID     uuid.UUID  `gorm:"column:user_id;type:char(36);not null;index"`
	PostID      *uuid.UUID `gorm:"type:char(36);index"`
	Bucket      string     `gorm:"type:varchar(100);not null"`
	Path        string     `gorm:"type:varchar(1024);not null"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Size        int64      `gorm:"not null"`
	ContentType string     `gorm:"type:varchar(100)"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index"`
}
