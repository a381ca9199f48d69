package post

import (
	"context"
	"time"

	"postflow/internal/core/outbox"
	"postflow/internal/core/post"
)

// PostRepository is the port for storing and reading posts.
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	FindByOwner(ctx context.Context, ownerID string, filter Filter) ([]*post.Post, error)
	FindByClientID(ctx context.Context, clientID string) ([]*post.Post, error)
	// Update applies changes and stores the events in one transaction.
	Update(ctx context.Context, id string, changes post.Changes, events ...*outbox.Message) error
}

type Order int

const (
	OrderPublishDesc Order = iota
	OrderPublishAsc
	OrderCreatedDesc
)

// NoClient selects posts without a client when used as Filter.ClientID.
const NoClient = "none"

type Filter struct {
	From          *time.Time // inclusive, on publish date
	To            *time.Time // exclusive
	Status        string
	SocialNetwork string
	Priority      string
	ClientID      string
	Order         Order
	Limit         int
}

// Matches reports whether p passes every condition except ordering and limit.
func (f Filter) Matches(p *post.Post) bool {
	if f.From != nil && p.PublishDate.Before(*f.From) {
		return false
	}
	if f.To != nil && !p.PublishDate.Before(*f.To) {
		return false
	}
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	if f.SocialNetwork != "" && p.SocialNetwork != f.SocialNetwork {
		return false
	}
	if f.Priority != "" && string(p.Priority) != f.Priority {
		return false
	}
	switch {
	case f.ClientID == "":
	case f.ClientID == NoClient:
		if p.ClientID != nil {
			return false
		}
	default:
		if p.ClientID == nil || p.ClientID.String() != f.ClientID {
			return false
		}
	}
	return true
}

// DTOs for the use cases
type StagesDTO struct {
	Roteiro       string `json:"roteiro"`
	Conteudo      string `json:"conteudo"`
	RoteiroLabel  string `json:"roteiro_label"`
	ConteudoLabel string `json:"conteudo_label"`
}

type PostDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Theme         string    `json:"tema"`
	Specification string    `json:"especificacao"`
	ContentType   string    `json:"tipo_conteudo"`
	SocialNetwork string    `json:"social_network"`
	PublishDate   time.Time `json:"publish_date"`
	Priority      string    `json:"priority"`
	ClientID      *string   `json:"client_id"`
	ClientName    *string   `json:"client_name,omitempty"`
	Content       string    `json:"content"`
	Status        string    `json:"status"`
	Stages        StagesDTO `json:"stages"`
	ReviewCount   int64     `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title         string `json:"title"`
	Theme         string `json:"tema"`
	Specification string `json:"especificacao"`
	ContentType   string `json:"tipo_conteudo"`
	SocialNetwork string `json:"social_network"`
	PublishDate   string `json:"publish_date"`
	Priority      string `json:"priority"`
	ClientID      string `json:"client_id"`
	Content       string `json:"content"`
	FileID        string `json:"file_id"`
}

// UpdatePostRequest carries the allow-listed fields of a staff edit. A nil
// field was absent from the request; an empty ClientID clears the client.
type UpdatePostRequest struct {
	Status        *string
	Title         *string
	PublishDate   *string
	SocialNetwork *string
	Priority      *string
	ClientID      *string
	Theme         *string
	Specification *string
	Content       *string
}
