package clientapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"postflow/internal/auth"
	clientEntity "postflow/internal/core/client"
	clientPort "postflow/internal/ports/client"
	filePort "postflow/internal/ports/file"
	postPort "postflow/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// URLSigner issues signed media URLs.
type URLSigner interface {
	SignedURL(ctx context.Context, bucket, path string) (string, error)
}

type ClientService struct {
	ClientRepository clientPort.ClientRepository
	PostRepository   postPort.PostRepository
	FileRepository   filePort.FileRepository
	Signer           URLSigner
	Logger           *zap.Logger
	now              func() time.Time
}

func NewClientService(
	clientRepo clientPort.ClientRepository,
	postRepo postPort.PostRepository,
	fileRepo filePort.FileRepository,
	signer URLSigner,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		ClientRepository: clientRepo,
		PostRepository:   postRepo,
		FileRepository:   fileRepo,
		Signer:           signer,
		Logger:           logger,
		now:              time.Now,
	}
}

func (s *ClientService) ListClients(ctx context.Context, cu auth.CurrentUser) ([]*clientPort.ClientDTO, error) {
	clients, err := s.ClientRepository.FindByOwner(ctx, cu.ID.String())
	if err != nil {
		return nil, err
	}
	out := make([]*clientPort.ClientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, clientPort.NewClientDTO(c))
	}
	return out, nil
}

// CreateClient derives the slug from the company name unless one is given.
func (s *ClientService) CreateClient(ctx context.Context, cu auth.CurrentUser, req clientPort.SaveClientRequest) (*clientPort.ClientDTO, error) {
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: company_name is required", clientEntity.ErrValidation)
	}
	slug, err := s.claimSlug(ctx, req.Slug, name, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	c, err := s.ClientRepository.Create(ctx, &clientEntity.Client{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     cu.ID,
		CompanyName: name,
		Email:       strings.TrimSpace(req.Email),
		Services:    cleanServices(req.Services),
		Notes:       req.Notes,
		LogoURL:     strings.TrimSpace(req.LogoURL),
		Slug:        slug,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.Logger.Info("client created", zap.String("client", c.ID.String()), zap.String("slug", slug))
	return clientPort.NewClientDTO(c), nil
}

func (s *ClientService) UpdateClient(ctx context.Context, cu auth.CurrentUser, id string, req clientPort.SaveClientRequest) (*clientPort.ClientDTO, error) {
	c, err := s.ownedClient(ctx, cu, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: company_name is required", clientEntity.ErrValidation)
	}
	slug, err := s.claimSlug(ctx, req.Slug, name, id)
	if err != nil {
		return nil, err
	}

	c.CompanyName = name
	c.Email = strings.TrimSpace(req.Email)
	c.Services = cleanServices(req.Services)
	c.Notes = req.Notes
	c.LogoURL = strings.TrimSpace(req.LogoURL)
	c.Slug = slug
	c.UpdatedAt = s.now()
	if err := s.ClientRepository.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return clientPort.NewClientDTO(c), nil
}

// DeleteClient removes the client only; its posts keep existing.
func (s *ClientService) DeleteClient(ctx context.Context, cu auth.CurrentUser, id string) error {
	if _, err := s.ownedClient(ctx, cu, id); err != nil {
		return err
	}
	if err := s.ClientRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.Logger.Info("client deleted", zap.String("client", id))
	return nil
}

// SlugAvailable normalizes raw and reports whether no client of any owner uses it.
func (s *ClientService) SlugAvailable(ctx context.Context, cu auth.CurrentUser, raw, excludeID string) (string, bool, error) {
	slug := clientEntity.GenerateSlug(raw)
	if slug == "" {
		return "", false, nil
	}
	taken, err := s.ClientRepository.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", false, err
	}
	return slug, !taken, nil
}

// PublicClientPosts builds the client review page: posts by publish date, newest
// first, each with a freshly signed URL for its most recent file.
func (s *ClientService) PublicClientPosts(ctx context.Context, slug string) (*clientPort.PublicPostsDTO, error) {
	c, err := s.ClientRepository.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}

	posts, err := s.PostRepository.FindByClientID(ctx, c.ID.String())
	if err != nil {
		return nil, err
	}

	out := &clientPort.PublicPostsDTO{
		Client: clientPort.PublicClientDTO{ID: c.ID.String(), CompanyName: c.CompanyName, LogoURL: c.LogoURL},
		Posts:  make([]*clientPort.PublicPostDTO, 0, len(posts)),
	}
	for _, p := range posts {
		// the preview shows the specification until content is written
		content := p.Content
		if strings.TrimSpace(content) == "" {
			content = p.Specification
		}
		dto := &clientPort.PublicPostDTO{
			ID:            p.ID.String(),
			Title:         p.Title,
			Theme:         p.Theme,
			Specification: p.Specification,
			Content:       content,
			ContentType:   p.ContentType,
			SocialNetwork: p.SocialNetwork,
			PublishDate:   p.PublishDate,
			Status:        string(p.Status),
		}
		dto.MediaURL = s.mediaURL(ctx, p.ID.String())
		out.Posts = append(out.Posts, dto)
	}
	return out, nil
}

// mediaURL returns "" when the post has no file or signing fails.
func (s *ClientService) mediaURL(ctx context.Context, postID string) string {
	f, err := s.FileRepository.LatestByPostID(ctx, postID)
	if err != nil {
		return ""
	}
	url, err := s.Signer.SignedURL(ctx, f.Bucket, f.Path)
	if err != nil {
		s.Logger.Warn("could not sign media url", zap.String("post", postID), zap.Error(err))
		return ""
	}
	return url
}

// claimSlug checks a requested slug as given and derives one from name otherwise.
func (s *ClientService) claimSlug(ctx context.Context, requested, name, excludeID string) (string, error) {
	slug := strings.TrimSpace(requested)
	if slug == "" {
		slug = clientEntity.GenerateSlug(name)
		if slug == "" {
			return "", fmt.Errorf("%w: slug cannot be empty", clientEntity.ErrValidation)
		}
	} else if !clientEntity.ValidSlug(slug) {
		return "", fmt.Errorf("%w: slug must be lowercase letters, digits and dashes", clientEntity.ErrValidation)
	}
	taken, err := s.ClientRepository.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", clientEntity.ErrSlugTaken
	}
	return slug, nil
}

func (s *ClientService) ownedClient(ctx context.Context, cu auth.CurrentUser, id string) (*clientEntity.Client, error) {
	c, err := s.ClientRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != cu.ID {
		return nil, clientEntity.ErrNotFound
	}
	return c, nil
}

func cleanServices(in []string) []string {
	out := make([]string, 0, len(in))
	for _, svc := range in {
		if svc = strings.TrimSpace(svc); svc != "" {
			out = append(out, svc)
		}
	}
	return out
}
