package post

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

var (
	ErrNotFound             = errors.New("post not found")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrNothingToUpdate      = errors.New("nothing to update")
	ErrValidation           = errors.New("invalid post")
)

type Priority string

const (
	PriorityLow    Priority = "baixa"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Post is a piece of scheduled content going through client approval.
// ThemeStatus and ContentStatus mirror DeriveStages(Status) and are rewritten on every status write.
type Post struct {
	ID            uuid.UUID  `gorm:"primaryKey;type:char(36)"`
	OwnerID       uuid.UUID  `gorm:"column:user_id;type:char(36);not null;index"`
	ClientID      *uuid.UUID `gorm:"type:char(36);index"`
	Title         string     `gorm:"type:varchar(255);not null"`
	Theme         string     `gorm:"column:tema;type:text"`
	Specification string     `gorm:"column:especificacao;type:text"`
	ContentType   string     `gorm:"column:tipo_conteudo;type:varchar(50)"`
	SocialNetwork string     `gorm:"type:varchar(50)"`
	PublishDate   time.Time  `gorm:"index"`
	Priority      Priority   `gorm:"type:varchar(10);not null;default:media"`
	Content       string     `gorm:"type:text"`
	Status        Status     `gorm:"type:varchar(20);not null;default:pendente;index"`
	ThemeStatus   Status     `gorm:"type:varchar(20)"`
	ContentStatus Status     `gorm:"type:varchar(20)"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

// SetStatus writes the flat status together with both stage columns.
func (p *Post) SetStatus(s Status) {
	stages := DeriveStages(string(s))
	p.Status = s
	p.ThemeStatus = stages.Theme
	p.ContentStatus = stages.Content
}
