package client

import (
	"context"
	"time"

	"postflow/internal/core/client"
)

// ClientRepository is the port for agency clients.
type ClientRepository interface {
	Create(ctx context.Context, c *client.Client) (*client.Client, error)
	Update(ctx context.Context, c *client.Client) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*client.Client, error)
	FindBySlug(ctx context.Context, slug string) (*client.Client, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*client.Client, error)
	// SlugExists checks every owner; slugs are global because they key the public URL.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}

type ClientDTO struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	Services    []string  `json:"services"`
	Notes       string    `json:"notes"`
	LogoURL     string    `json:"logo_url"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
}

type SaveClientRequest struct {
	CompanyName string   `json:"company_name" binding:"required"`
	Email       string   `json:"email"`
	Services    []string `json:"services"`
	Notes       string   `json:"notes"`
	LogoURL     string   `json:"logo_url"`
	Slug        string   `json:"slug"`
}

// Public review page payloads
type PublicClientDTO struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	LogoURL     string `json:"logo_url"`
}

type PublicPostDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Theme         string    `json:"tema"`
	Specification string    `json:"especificacao"`
	Content       string    `json:"content"`
	ContentType   string    `json:"tipo_conteudo"`
	SocialNetwork string    `json:"social_network"`
	PublishDate   time.Time `json:"publish_date"`
	Status        string    `json:"status"`
	MediaURL      string    `json:"media_url,omitempty"`
}

type PublicPostsDTO struct {
	Client PublicClientDTO  `json:"client"`
	Posts  []*PublicPostDTO `json:"posts"`
}

func NewClientDTO(c *client.Client) *ClientDTO {
	services := c.Services
	if services == nil {
		services = []string{}
	}
	return &ClientDTO{
		ID:          c.ID.String(),
		CompanyName: c.CompanyName,
		Email:       c.Email,
		Services:    services,
		Notes:       c.Notes,
		LogoURL:     c.LogoURL,
		Slug:        c.Slug,
		CreatedAt:   c.CreatedAt,
	}
}
