package post

import (
	"time"

	"github.com/gofrs/uuid"
)

// Changes is a validated partial update. Nil fields are left untouched.
type Changes struct {
	Status        *Status
	Title         *string
	PublishDate   *time.Time
	SocialNetwork *string
	Priority      *Priority
	ClientID      *uuid.UUID
	ClearClient   bool
	Theme         *string
	Specification *string
	Content       *string
	UpdatedAt     time.Time
}

func (c Changes) IsEmpty() bool {
	return c.Status == nil && c.Title == nil && c.PublishDate == nil && c.SocialNetwork == nil &&
		c.Priority == nil && c.ClientID == nil && !c.ClearClient && c.Theme == nil &&
		c.Specification == nil && c.Content == nil
}

// Columns returns the column/value map for an UPDATE statement.
func (c Changes) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if c.Status != nil {
		stages := DeriveStages(string(*c.Status))
		cols["status"] = *c.Status
		cols["theme_status"] = stages.Theme
		cols["content_status"] = stages.Content
	}
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.PublishDate != nil {
		cols["publish_date"] = *c.PublishDate
	}
	if c.SocialNetwork != nil {
		cols["social_network"] = *c.SocialNetwork
	}
	if c.Priority != nil {
		cols["priority"] = *c.Priority
	}
	if c.ClearClient {
		cols["client_id"] = nil
	} else if c.ClientID != nil {
		cols["client_id"] = *c.ClientID
	}
	if c.Theme != nil {
		cols["tema"] = *c.Theme
	}
	if c.Specification != nil {
		cols["especificacao"] = *c.Specification
	}
	if c.Content != nil {
		cols["content"] = *c.Content
	}
	if !c.UpdatedAt.IsZero() {
		cols["updated_at"] = c.UpdatedAt
	}
	return cols
}

// Apply writes the changes onto p in memory.
func (c Changes) Apply(p *Post) {
	if c.Status != nil {
		p.SetStatus(*c.Status)
	}
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.PublishDate != nil {
		p.PublishDate = *c.PublishDate
	}
	if c.SocialNetwork != nil {
		p.SocialNetwork = *c.SocialNetwork
	}
	if c.Priority != nil {
		p.Priority = *c.Priority
	}
	if c.ClearClient {
		p.ClientID = nil
	} else if c.ClientID != nil {
		id := *c.ClientID
		p.ClientID = &id
	}
	if c.Theme != nil {
		p.Theme = *c.Theme
	}
	if c.Specification != nil {
		p.Specification = *c.Specification
	}
	if c.Content != nil {
		p.Content = *c.Content
	}
	if !c.UpdatedAt.IsZero() {
		p.UpdatedAt = c.UpdatedAt
	}
}
