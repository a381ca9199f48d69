package postapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"postflow/internal/auth"
	clientEntity "postflow/internal/core/client"
	fileEntity "postflow/internal/core/file"
	"postflow/internal/core/outbox"
	postEntity "postflow/internal/core/post"
	clientPort "postflow/internal/ports/client"
	filePort "postflow/internal/ports/file"
	postPort "postflow/internal/ports/post"
	reviewPort "postflow/internal/ports/review"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type PostService struct {
	PostRepository   postPort.PostRepository
	ClientRepository clientPort.ClientRepository
	ReviewRepository reviewPort.ReviewRepository
	FileRepository   filePort.FileRepository
	Location         *time.Location // for publish dates sent without an offset
	Logger           *zap.Logger
	now              func() time.Time
}

func NewPostService(
	postRepo postPort.PostRepository,
	clientRepo clientPort.ClientRepository,
	reviewRepo reviewPort.ReviewRepository,
	fileRepo filePort.FileRepository,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository:   postRepo,
		ClientRepository: clientRepo,
		ReviewRepository: reviewRepo,
		FileRepository:   fileRepo,
		Location:         time.UTC,
		Logger:           logger,
		now:              time.Now,
	}
}

// CreatePost stores a new post in pendente and links the uploaded file, if any.
func (s *PostService) CreatePost(ctx context.Context, cu auth.CurrentUser, req postPort.CreatePostRequest) (*postPort.PostDTO, error) {
	title := strings.TrimSpace(req.Title)
	theme := strings.TrimSpace(req.Theme)
	spec := strings.TrimSpace(req.Specification)
	contentType := strings.TrimSpace(req.ContentType)
	network := strings.TrimSpace(req.SocialNetwork)
	if title == "" || theme == "" || spec == "" || contentType == "" || network == "" {
		return nil, fmt.Errorf("%w: title, tema, especificacao, tipo_conteudo and social_network are required", postEntity.ErrValidation)
	}

	publishDate, err := postEntity.ParsePublishDate(req.PublishDate, s.Location)
	if err != nil {
		return nil, err
	}

	priority := postEntity.PriorityMedium
	if req.Priority != "" {
		priority = postEntity.Priority(req.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: priority must be baixa, media or alta", postEntity.ErrValidation)
		}
	}

	var clientID *uuid.UUID
	var clientName *string
	if req.ClientID != "" {
		c, err := s.ownedClient(ctx, cu, req.ClientID)
		if err != nil {
			return nil, err
		}
		clientID = &c.ID
		clientName = &c.CompanyName
	}

	var media *fileEntity.File
	if req.FileID != "" {
		f, err := s.FileRepository.FindByID(ctx, req.FileID)
		if err != nil || f.OwnerID != cu.ID {
			return nil, fmt.Errorf("%w: unknown file %s", postEntity.ErrValidation, req.FileID)
		}
		media = f
	}

	now := s.now()
	p := &postEntity.Post{
		ID:            uuid.Must(uuid.NewV4()),
		OwnerID:       cu.ID,
		ClientID:      clientID,
		Title:         title,
		Theme:         theme,
		Specification: spec,
		ContentType:   contentType,
		SocialNetwork: network,
		PublishDate:   publishDate,
		Priority:      priority,
		Content:       strings.TrimSpace(req.Content),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.SetStatus(postEntity.StatusPending)

	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		s.Logger.Error("failed to create post", zap.String("owner", cu.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if media != nil {
		if err := s.FileRepository.LinkToPost(ctx, media.ID.String(), created.ID.String()); err != nil {
			s.Logger.Warn("could not link file to post", zap.String("file", media.ID.String()), zap.Error(err))
		}
	}

	s.Logger.Info("post created", zap.String("post", created.ID.String()), zap.String("owner", cu.ID.String()))
	return postPort.NewPostDTO(created, clientName, 0), nil
}

func (s *PostService) GetPost(ctx context.Context, cu auth.CurrentUser, id string) (*postPort.PostDTO, error) {
	p, err := s.ownedPost(ctx, cu, id)
	if err != nil {
		return nil, err
	}

	var clientName *string
	if p.ClientID != nil {
		if c, err := s.ClientRepository.FindByID(ctx, p.ClientID.String()); err == nil {
			clientName = &c.CompanyName
		}
	}

	counts, err := s.ReviewRepository.CountByPostIDs(ctx, []string{p.ID.String()})
	if err != nil {
		return nil, err
	}
	return postPort.NewPostDTO(p, clientName, counts[p.ID.String()]), nil
}

// ListPosts returns the owner's posts by publish date, newest first. q filters
// on title, theme and content.
func (s *PostService) ListPosts(ctx context.Context, cu auth.CurrentUser, q string) ([]*postPort.PostDTO, error) {
	posts, err := s.PostRepository.FindByOwner(ctx, cu.ID.String(), postPort.Filter{Order: postPort.OrderPublishDesc})
	if err != nil {
		return nil, err
	}

	q = strings.ToLower(strings.TrimSpace(q))
	matched := make([]*postEntity.Post, 0, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if q != "" && !containsFold(q, p.Title, p.Theme, p.Content) {
			continue
		}
		matched = append(matched, p)
		ids = append(ids, p.ID.String())
	}

	names, err := s.clientNames(ctx, cu)
	if err != nil {
		return nil, err
	}
	counts, err := s.ReviewRepository.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*postPort.PostDTO, 0, len(matched))
	for _, p := range matched {
		var name *string
		if p.ClientID != nil {
			if n, ok := names[p.ClientID.String()]; ok {
				name = &n
			}
		}
		out = append(out, postPort.NewPostDTO(p, name, counts[p.ID.String()]))
	}
	return out, nil
}

// UpdatePost applies a staff edit. Status aliases are normalized and any of the
// four statuses may be set from any state.
func (s *PostService) UpdatePost(ctx context.Context, cu auth.CurrentUser, id string, req postPort.UpdatePostRequest) error {
	changes, err := s.buildChanges(ctx, cu, req)
	if err != nil {
		return err
	}
	if changes.IsEmpty() {
		return postEntity.ErrNothingToUpdate
	}

	p, err := s.ownedPost(ctx, cu, id)
	if err != nil {
		return err
	}

	now := s.now()
	changes.UpdatedAt = now
	ev := outbox.Event{Type: outbox.TypePostUpdated, Actor: string(postEntity.ActorStaff), OccurredAt: now}
	if changes.Status != nil {
		ev.Type = outbox.TypeStatusChanged
		ev.Status = string(*changes.Status)
	}
	msg, err := outbox.New(p.ID, ev)
	if err != nil {
		return err
	}

	if err := s.PostRepository.Update(ctx, id, changes, msg); err != nil {
		s.Logger.Error("failed to update post", zap.String("post", id), zap.Error(err))
		return fmt.Errorf("failed to update post: %w", err)
	}
	s.Logger.Info("post updated", zap.String("post", id), zap.String("event", ev.Type))
	return nil
}

// TransitionStatus is the staff status write used by the board.
func (s *PostService) TransitionStatus(ctx context.Context, cu auth.CurrentUser, id, raw string) (postEntity.Status, error) {
	to, err := postEntity.ParseStatus(raw)
	if err != nil {
		return "", err
	}
	value := string(to)
	if err := s.UpdatePost(ctx, cu, id, postPort.UpdatePostRequest{Status: &value}); err != nil {
		return "", err
	}
	return to, nil
}

// PublicTransition is the status change sent from the client review page.
func (s *PostService) PublicTransition(ctx context.Context, id, raw string) (postEntity.Status, error) {
	to, err := postEntity.ParsePublicStatus(raw)
	if err != nil {
		return "", err
	}

	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !postEntity.CanTransition(postEntity.ActorClient, p.Status, to) {
		return "", fmt.Errorf("%w: %s -> %s", postEntity.ErrTransitionNotAllowed, p.Status, to)
	}

	now := s.now()
	msg, err := outbox.New(p.ID, outbox.Event{
		Type:       outbox.TypeStatusChanged,
		Status:     string(to),
		Actor:      string(postEntity.ActorClient),
		OccurredAt: now,
	})
	if err != nil {
		return "", err
	}

	if err := s.PostRepository.Update(ctx, id, postEntity.Changes{Status: &to, UpdatedAt: now}, msg); err != nil {
		return "", fmt.Errorf("failed to update status: %w", err)
	}
	s.Logger.Info("client changed post status", zap.String("post", id), zap.String("from", string(p.Status)), zap.String("to", string(to)))
	return to, nil
}

func (s *PostService) buildChanges(ctx context.Context, cu auth.CurrentUser, req postPort.UpdatePostRequest) (postEntity.Changes, error) {
	var ch postEntity.Changes
	if req.Status != nil {
		st, err := postEntity.ParseStatus(*req.Status)
		if err != nil {
			return ch, err
		}
		ch.Status = &st
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return ch, fmt.Errorf("%w: title cannot be empty", postEntity.ErrValidation)
		}
		ch.Title = &title
	}
	if req.PublishDate != nil {
		t, err := postEntity.ParsePublishDate(*req.PublishDate, s.Location)
		if err != nil {
			return ch, err
		}
		ch.PublishDate = &t
	}
	if req.SocialNetwork != nil {
		network := strings.TrimSpace(*req.SocialNetwork)
		ch.SocialNetwork = &network
	}
	if req.Priority != nil {
		pr := postEntity.Priority(*req.Priority)
		if !pr.Valid() {
			return ch, fmt.Errorf("%w: priority must be baixa, media or alta", postEntity.ErrValidation)
		}
		ch.Priority = &pr
	}
	if req.ClientID != nil {
		if *req.ClientID == "" {
			ch.ClearClient = true
		} else {
			c, err := s.ownedClient(ctx, cu, *req.ClientID)
			if err != nil {
				return ch, err
			}
			ch.ClientID = &c.ID
		}
	}
	ch.Theme = req.Theme
	ch.Specification = req.Specification
	ch.Content = req.Content
	return ch, nil
}

// ownedPost hides posts of other owners behind ErrNotFound.
func (s *PostService) ownedPost(ctx context.Context, cu auth.CurrentUser, id string) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != cu.ID {
		return nil, postEntity.ErrNotFound
	}
	return p, nil
}

func (s *PostService) ownedClient(ctx context.Context, cu auth.CurrentUser, id string) (*clientEntity.Client, error) {
	c, err := s.ClientRepository.FindByID(ctx, id)
	if errors.Is(err, clientEntity.ErrNotFound) || (err == nil && c.OwnerID != cu.ID) {
		return nil, fmt.Errorf("%w: unknown client %s", postEntity.ErrValidation, id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostService) clientNames(ctx context.Context, cu auth.CurrentUser) (map[string]string, error) {
	clients, err := s.ClientRepository.FindByOwner(ctx, cu.ID.String())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID.String()] = c.CompanyName
	}
	return names, nil
}

func containsFold(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
