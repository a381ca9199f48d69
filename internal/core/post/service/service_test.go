package postapp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"postflow/internal/adapters/memory"
	"postflow/internal/auth"
	clientEntity "postflow/internal/core/client"
	fileEntity "postflow/internal/core/file"
	"postflow/internal/core/outbox"
	postEntity "postflow/internal/core/post"
	reviewEntity "postflow/internal/core/review"
	postPort "postflow/internal/ports/post"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *PostService
	store   *memory.Store
	posts   *memory.PostRepository
	clients *memory.ClientRepository
	reviews *memory.ReviewRepository
	files   *memory.FileRepository
	outbox  *memory.OutboxRepository
	owner   auth.CurrentUser
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:   store,
		posts:   memory.NewPostRepository(store),
		clients: memory.NewClientRepository(store),
		reviews: memory.NewReviewRepository(store),
		files:   memory.NewFileRepository(store),
		outbox:  memory.NewOutboxRepository(store),
		owner:   auth.CurrentUser{ID: uuid.Must(uuid.NewV4()), Name: "Ana"},
	}
	f.svc = NewPostService(f.posts, f.clients, f.reviews, f.files, zap.NewNop())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func validRequest() postPort.CreatePostRequest {
	return postPort.CreatePostRequest{
		Title:         "Lançamento",
		Theme:         "Produto novo",
		Specification: "Carrossel com 5 cards",
		ContentType:   "carrossel",
		SocialNetwork: "instagram",
		PublishDate:   "2024-05-20T10:00",
		Content:       "Texto da legenda",
	}
}

func (f *fixture) createPost(t *testing.T) *postPort.PostDTO {
	t.Helper()
	p, err := f.svc.CreatePost(context.Background(), f.owner, validRequest())
	require.NoError(t, err)
	return p
}

func (f *fixture) createClient(t *testing.T, owner uuid.UUID, name string) *clientEntity.Client {
	t.Helper()
	c, err := f.clients.Create(context.Background(), &clientEntity.Client{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     owner,
		CompanyName: name,
		Slug:        clientEntity.GenerateSlug(name),
	})
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }

func TestCreatePost_Defaults(t *testing.T) {
	f := newFixture(t)
	p := f.createPost(t)

	assert.Equal(t, "pendente", p.Status)
	assert.Equal(t, "media", p.Priority)
	assert.Equal(t, "pendente", p.Stages.Roteiro)
	assert.Equal(t, "PENDENTE", p.Stages.ConteudoLabel)
	assert.Nil(t, p.ClientID)
	assert.Equal(t, fixedNow, p.CreatedAt)

	stored, err := f.posts.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, stored.OwnerID)
	assert.Equal(t, postEntity.StatusPending, stored.ThemeStatus)
}

func TestCreatePost_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := validRequest()
	req.Title = "  "
	_, err := f.svc.CreatePost(ctx, f.owner, req)
	assert.ErrorIs(t, err, postEntity.ErrValidation)

	req = validRequest()
	req.PublishDate = "amanhã"
	_, err = f.svc.CreatePost(ctx, f.owner, req)
	assert.ErrorIs(t, err, postEntity.ErrValidation)

	req = validRequest()
	req.Priority = "urgente"
	_, err = f.svc.CreatePost(ctx, f.owner, req)
	assert.ErrorIs(t, err, postEntity.ErrValidation)

	// a client of another owner is reported as unknown
	foreign := f.createClient(t, uuid.Must(uuid.NewV4()), "Outra Agência")
	req = validRequest()
	req.ClientID = foreign.ID.String()
	_, err = f.svc.CreatePost(ctx, f.owner, req)
	assert.ErrorIs(t, err, postEntity.ErrValidation)
}

func TestCreatePost_WithClientAndFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createClient(t, f.owner.ID, "Padaria Central")
	file, err := f.files.Create(ctx, &fileEntity.File{ID: uuid.Must(uuid.NewV4()), OwnerID: f.owner.ID, Bucket: "b", Path: "p.png", Name: "p.png", Size: 3})
	require.NoError(t, err)

	req := validRequest()
	req.ClientID = c.ID.String()
	req.FileID = file.ID.String()
	req.Priority = "alta"
	p, err := f.svc.CreatePost(ctx, f.owner, req)
	require.NoError(t, err)

	require.NotNil(t, p.ClientID)
	assert.Equal(t, c.ID.String(), *p.ClientID)
	require.NotNil(t, p.ClientName)
	assert.Equal(t, "Padaria Central", *p.ClientName)
	assert.Equal(t, "alta", p.Priority)

	latest, err := f.files.LatestByPostID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, file.ID, latest.ID)
}

func TestUpdatePost_EmptyBodyChangesNothing(t *testing.T) {
	f := newFixture(t)
	p := f.createPost(t)

	err := f.svc.UpdatePost(context.Background(), f.owner, p.ID, postPort.UpdatePostRequest{})
	assert.ErrorIs(t, err, postEntity.ErrNothingToUpdate)

	stored, err := f.posts.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, stored.UpdatedAt)
	assert.Empty(t, f.outbox.All())
}

func TestUpdatePost_NormalizesLegacyStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPost(t)

	require.NoError(t, f.svc.UpdatePost(ctx, f.owner, p.ID, postPort.UpdatePostRequest{Status: strPtr("concluido")}))

	stored, err := f.posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusApproved, stored.Status)
	assert.Equal(t, postEntity.StatusApproved, stored.ContentStatus)
	// untouched fields
	assert.Equal(t, "Lançamento", stored.Title)
	assert.Equal(t, "Texto da legenda", stored.Content)
	assert.Equal(t, postEntity.PriorityMedium, stored.Priority)

	msgs := f.outbox.All()
	require.Len(t, msgs, 1)
	assert.Equal(t, outbox.TypeStatusChanged, msgs[0].Type)
	var ev outbox.Event
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Payload), &ev))
	assert.Equal(t, "aprovado", ev.Status)
	assert.Equal(t, "user", ev.Actor)
}

func TestUpdatePost_StaffMayMoveBetweenAnyStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPost(t)

	for _, st := range []string{"rejeitado", "pendente", "aprovado", "em_revisao", "pendente"} {
		require.NoError(t, f.svc.UpdatePost(ctx, f.owner, p.ID, postPort.UpdatePostRequest{Status: strPtr(st)}), st)
		stored, err := f.posts.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, postEntity.Status(st), stored.Status)
	}
}

func TestUpdatePost_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPost(t)

	err := f.svc.UpdatePost(ctx, f.owner, p.ID, postPort.UpdatePostRequest{Status: strPtr("publicado")})
	assert.ErrorIs(t, err, postEntity.ErrInvalidStatus)

	stranger := auth.CurrentUser{ID: uuid.Must(uuid.NewV4())}
	err = f.svc.UpdatePost(ctx, stranger, p.ID, postPort.UpdatePostRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, postEntity.ErrNotFound)

	err = f.svc.UpdatePost(ctx, f.owner, uuid.Must(uuid.NewV4()).String(), postPort.UpdatePostRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, postEntity.ErrNotFound)

	err = f.svc.UpdatePost(ctx, f.owner, p.ID, postPort.UpdatePostRequest{Title: strPtr(" ")})
	assert.ErrorIs(t, err, postEntity.ErrValidation)
}

func TestUpdatePost_ClearsClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createClient(t, f.owner.ID, "Padaria Central")
	req := validRequest()
	req.ClientID = c.ID.String()
	p, err := f.svc.CreatePost(ctx, f.owner, req)
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdatePost(ctx, f.owner, p.ID, postPort.UpdatePostRequest{ClientID: strPtr("")}))
	stored, err := f.posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ClientID)

	msgs := f.outbox.All()
	require.Len(t, msgs, 1)
	assert.Equal(t, outbox.TypePostUpdated, msgs[0].Type)
}

func TestTransitionStatus(t *testing.T) {
	f := newFixture(t)
	p := f.createPost(t)

	st, err := f.svc.TransitionStatus(context.Background(), f.owner, p.ID, "em_progresso")
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusInReview, st)

	_, err = f.svc.TransitionStatus(context.Background(), f.owner, p.ID, "")
	assert.ErrorIs(t, err, postEntity.ErrInvalidStatus)
}

func TestPublicTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPost(t)

	// pendente is never accepted from the review page
	_, err := f.svc.PublicTransition(ctx, p.ID, "pendente")
	assert.ErrorIs(t, err, postEntity.ErrInvalidStatus)

	_, err = f.svc.PublicTransition(ctx, p.ID, "rejeitado")
	assert.ErrorIs(t, err, postEntity.ErrTransitionNotAllowed)

	st, err := f.svc.PublicTransition(ctx, p.ID, "em_revisao")
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusInReview, st)

	st, err = f.svc.PublicTransition(ctx, p.ID, "aprovado")
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusApproved, st)

	_, err = f.svc.PublicTransition(ctx, p.ID, "em_revisao")
	assert.ErrorIs(t, err, postEntity.ErrTransitionNotAllowed)

	stored, err := f.posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusApproved, stored.Status)

	msgs := f.outbox.All()
	require.Len(t, msgs, 2)
	var ev outbox.Event
	require.NoError(t, json.Unmarshal([]byte(msgs[1].Payload), &ev))
	assert.Equal(t, "client", ev.Actor)

	_, err = f.svc.PublicTransition(ctx, uuid.Must(uuid.NewV4()).String(), "aprovado")
	assert.ErrorIs(t, err, postEntity.ErrNotFound)
}

func TestListPosts_SearchAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.createPost(t)

	req := validRequest()
	req.Title = "Promoção de inverno"
	req.PublishDate = "2024-06-01"
	second, err := f.svc.CreatePost(ctx, f.owner, req)
	require.NoError(t, err)

	pid, err := uuid.FromString(first.ID)
	require.NoError(t, err)
	require.NoError(t, f.reviews.Create(ctx, &reviewEntity.Review{ID: uuid.Must(uuid.NewV4()), PostID: pid, Message: "ok", AuthorType: reviewEntity.AuthorClient}))

	all, err := f.svc.ListPosts(ctx, f.owner, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, int64(1), all[1].ReviewCount)

	found, err := f.svc.ListPosts(ctx, f.owner, "INVERNO")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, second.ID, found[0].ID)

	others, err := f.svc.ListPosts(ctx, auth.CurrentUser{ID: uuid.Must(uuid.NewV4())}, "")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestGetPost_HidesForeignPosts(t *testing.T) {
	f := newFixture(t)
	p := f.createPost(t)

	got, err := f.svc.GetPost(context.Background(), f.owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = f.svc.GetPost(context.Background(), auth.CurrentUser{ID: uuid.Must(uuid.NewV4())}, p.ID)
	assert.ErrorIs(t, err, postEntity.ErrNotFound)
}
