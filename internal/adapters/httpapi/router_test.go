package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postflow/internal/adapters/httpapi/middleware"
	"postflow/internal/adapters/memory"
	"postflow/internal/auth"
	calendarapp "postflow/internal/core/calendar/service"
	clientapp "postflow/internal/core/client/service"
	dashboardapp "postflow/internal/core/dashboard/service"
	fileapp "postflow/internal/core/file/service"
	postEntity "postflow/internal/core/post"
	postapp "postflow/internal/core/post/service"
	reviewapp "postflow/internal/core/review/service"
	userapp "postflow/internal/core/user/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	posts  *memory.PostRepository
	outbox *memory.OutboxRepository
	token  string
}

func newTestApp(t *testing.T, limiter middleware.Limiter) *testApp {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	posts := memory.NewPostRepository(store)
	reviews := memory.NewReviewRepository(store)
	clients := memory.NewClientRepository(store)
	files := memory.NewFileRepository(store)
	tokens := auth.NewTokenManager([]byte("test-secret"), time.Hour)

	fileSvc := fileapp.NewFileService(files, memory.NewMediaStore(), nil, "post-media", logger)
	app := &testApp{
		posts:  posts,
		outbox: memory.NewOutboxRepository(store),
		router: SetupRoutes(UseCases{
			Users:     userapp.NewUserService(users, tokens, logger),
			Posts:     postapp.NewPostService(posts, clients, reviews, files, logger),
			Reviews:   reviewapp.NewReviewService(reviews, posts, logger),
			Clients:   clientapp.NewClientService(clients, posts, files, fileSvc, logger),
			Files:     fileSvc,
			Calendar:  calendarapp.NewCalendarService(posts, clients, reviews, time.UTC),
			Dashboard: dashboardapp.NewDashboardService(posts, clients, reviews),
		}, Options{Tokens: tokens, Limiter: limiter, Logger: logger}),
	}

	w := app.do(t, http.MethodPost, "/auth/register", `{"name":"Ana","email":"ana@agencia.com","password":"segredo1"}`, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = app.do(t, http.MethodPost, "/auth/login", `{"email":"ana@agencia.com","password":"segredo1"}`, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)
	app.token = login.Token
	return app
}

func (a *testApp) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) createPost(t *testing.T) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/posts", `{
		"title":"Lançamento","tema":"Produto","especificacao":"Carrossel",
		"tipo_conteudo":"carrossel","social_network":"instagram",
		"publish_date":"2024-05-20T10:00","content":"Legenda"}`, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &p)
	require.Equal(t, "pendente", p.Status)
	return p.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}

func TestClientReviewFlow(t *testing.T) {
	app := newTestApp(t, nil)
	id := app.createPost(t)

	w := app.do(t, http.MethodPost, "/public/posts/"+id+"/reviews", `{"message":"ajustar cor"}`, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var ok struct {
		OK bool   `json:"ok"`
		ID string `json:"id"`
	}
	decode(t, w, &ok)
	assert.True(t, ok.OK)
	assert.NotEmpty(t, ok.ID)

	w = app.do(t, http.MethodPost, "/public/posts/"+id+"/status", `{"status":"em_revisao"}`, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/posts/"+id+"/reviews", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Reviews []struct {
			Message    string `json:"message"`
			AuthorType string `json:"author_type"`
		} `json:"reviews"`
	}
	decode(t, w, &list)
	require.Len(t, list.Reviews, 1)
	assert.Equal(t, "client", list.Reviews[0].AuthorType)
	assert.Equal(t, "ajustar cor", list.Reviews[0].Message)

	w = app.do(t, http.MethodGet, "/posts/"+id, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		Status string `json:"status"`
		Stages struct {
			Roteiro  string `json:"roteiro"`
			Conteudo string `json:"conteudo"`
		} `json:"stages"`
		ReviewCount int64 `json:"review_count"`
	}
	decode(t, w, &p)
	assert.Equal(t, "em_revisao", p.Status)
	assert.Equal(t, "aprovado", p.Stages.Roteiro)
	assert.Equal(t, "em_revisao", p.Stages.Conteudo)
	assert.Equal(t, int64(1), p.ReviewCount)
}

func TestStaffUpdate_NormalizesLegacyStatus(t *testing.T) {
	app := newTestApp(t, nil)
	id := app.createPost(t)

	w := app.do(t, http.MethodPut, "/posts/"+id, `{"status":"concluido"}`, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := app.posts.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusApproved, stored.Status)
	assert.Equal(t, "Lançamento", stored.Title)
	assert.Equal(t, "Legenda", stored.Content)
}

func TestStaffUpdate_EmptyBody(t *testing.T) {
	app := newTestApp(t, nil)
	id := app.createPost(t)
	before, err := app.posts.FindByID(context.Background(), id)
	require.NoError(t, err)

	for _, body := range []string{"", "{}", `{"unknown":"x"}`} {
		w := app.do(t, http.MethodPut, "/posts/"+id, body, true)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Nada para atualizar", errorOf(t, w), body)
	}

	after, err := app.posts.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, app.outbox.All())
}

func TestStaffUpdate_BadInput(t *testing.T) {
	app := newTestApp(t, nil)
	id := app.createPost(t)

	w := app.do(t, http.MethodPut, "/posts/"+id, `{"status":"publicado"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Status inválido", errorOf(t, w))

	w = app.do(t, http.MethodPut, "/posts/"+id, `{"title":42}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPut, "/posts/"+id, `not json`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPut, "/posts/00000000-0000-0000-0000-000000000000", `{"title":"x"}`, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post não encontrado", errorOf(t, w))
}

// Staff may write any of the four statuses; the review page may not send pendente.
func TestStatusWrites_StaffAndPublicDiffer(t *testing.T) {
	app := newTestApp(t, nil)
	id := app.createPost(t)

	w := app.do(t, http.MethodPost, "/public/posts/"+id+"/status", `{"status":"aprovado"}`, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/public/posts/"+id+"/status", `{"status":"pendente"}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Status inválido", errorOf(t, w))

	w = app.do(t, http.MethodPut, "/posts/"+id, `{"status":"pendente"}`, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPatch, "/posts/"+id+"/status", `{"status":"em_progresso"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Status string `json:"status"`
	}
	decode(t, w, &res)
	assert.Equal(t, "em_revisao", res.Status)
}

func TestPublicStatus_DisallowedTransition(t *testing.T) {
	app := newTestApp(t, nil)
	id := app.createPost(t)

	w := app.do(t, http.MethodPost, "/public/posts/"+id+"/status", `{"status":"rejeitado"}`, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPost, "/public/posts/"+id+"/status", `{}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored, err := app.posts.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusPending, stored.Status)
}

func TestReviews_EmptyMessage(t *testing.T) {
	app := newTestApp(t, nil)
	id := app.createPost(t)

	for _, path := range []string{"/public/posts/" + id + "/reviews", "/posts/" + id + "/reviews"} {
		w := app.do(t, http.MethodPost, path, `{"message":"   "}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "Mensagem vazia", errorOf(t, w), path)

		w = app.do(t, http.MethodPost, path, "", true)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w := app.do(t, http.MethodPost, "/posts/"+id+"/reviews", `{"message":"Pode seguir"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodGet, "/public/posts/"+id+"/reviews", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"author_type":"user"`)
}

func TestAdjustmentRequest(t *testing.T) {
	app := newTestApp(t, nil)
	id := app.createPost(t)

	w := app.do(t, http.MethodPost, "/public/posts/"+id+"/adjustments", `{"message":"Trocar a foto"}`, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Status string `json:"status"`
		Review struct {
			AuthorType string `json:"author_type"`
		} `json:"review"`
	}
	decode(t, w, &res)
	assert.Equal(t, "em_revisao", res.Status)
	assert.Equal(t, "client", res.Review.AuthorType)

	w = app.do(t, http.MethodPost, "/public/posts/"+id+"/status", `{"status":"aprovado"}`, false)
	require.Equal(t, http.StatusOK, w.Code)

	// approved posts cannot be sent back by the client
	w = app.do(t, http.MethodPost, "/public/posts/"+id+"/adjustments", `{"message":"Mais uma"}`, false)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestClientsAndPublicPage(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(t, http.MethodPost, "/clients", `{"company_name":"Padaria São João","services":["social"]}`, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	decode(t, w, &c)
	assert.Equal(t, "padaria-sao-joao", c.Slug)

	w = app.do(t, http.MethodPost, "/clients", `{"company_name":"Padaria Sao Joao"}`, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPost, "/clients", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/clients/slug-available?slug=Padaria+S%C3%A3o+Jo%C3%A3o&exclude="+c.ID, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slug":"padaria-sao-joao","available":true}`, w.Body.String())

	w = app.do(t, http.MethodPost, "/posts", `{
		"title":"Pão de queijo","tema":"Receita","especificacao":"Reels","tipo_conteudo":"video",
		"social_network":"instagram","publish_date":"2024-05-21","client_id":"`+c.ID+`"}`, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/public/client/padaria-sao-joao/posts", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Client struct {
			CompanyName string `json:"company_name"`
		} `json:"client"`
		Posts []struct {
			Title string `json:"title"`
		} `json:"posts"`
	}
	decode(t, w, &page)
	assert.Equal(t, "Padaria São João", page.Client.CompanyName)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Pão de queijo", page.Posts[0].Title)

	w = app.do(t, http.MethodGet, "/public/client/nao-existe/posts", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cliente não encontrado", errorOf(t, w))

	w = app.do(t, http.MethodDelete, "/clients/"+c.ID, "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodDelete, "/clients/"+c.ID, "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadModels(t *testing.T) {
	app := newTestApp(t, nil)
	app.createPost(t)

	w := app.do(t, http.MethodGet, "/calendar?view=week&date=2024-05-20", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cal struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Total int    `json:"total"`
		Days  []struct {
			Date string `json:"date"`
		} `json:"days"`
	}
	decode(t, w, &cal)
	assert.Equal(t, "2024-05-19", cal.Start)
	assert.Equal(t, "2024-05-25", cal.End)
	assert.Equal(t, 1, cal.Total)
	assert.Len(t, cal.Days, 7)

	w = app.do(t, http.MethodGet, "/calendar?view=decade", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/board", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"em_progresso"`)

	w = app.do(t, http.MethodGet, "/dashboard", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		TotalPosts   int            `json:"total_posts"`
		StatusCounts map[string]int `json:"status_counts"`
	}
	decode(t, w, &dash)
	assert.Equal(t, 1, dash.TotalPosts)
	assert.Equal(t, 1, dash.StatusCounts["pendente"])
}

func TestFileUpload(t *testing.T) {
	app := newTestApp(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "arte final.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/files", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+app.token)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var f struct {
		ID        string `json:"id"`
		Path      string `json:"path"`
		SignedURL string `json:"signedUrl"`
	}
	decode(t, w, &f)
	assert.NotEmpty(t, f.ID)
	assert.Contains(t, f.Path, "_arte_final.png")
	assert.Contains(t, f.SignedURL, "memory://post-media/")

	w = app.do(t, http.MethodPost, "/files", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(t, http.MethodGet, "/posts", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/auth/login", `{"email":"ana@agencia.com","password":"errada"}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/auth/register", `{"name":"Ana","email":"ana@agencia.com","password":"segredo1"}`, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/nope", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicRoutesAreRateLimited(t *testing.T) {
	app := newTestApp(t, middleware.NewIPRateLimiter(2, time.Minute))
	id := app.createPost(t)

	for i := 0; i < 2; i++ {
		w := app.do(t, http.MethodGet, "/public/posts/"+id+"/reviews", "", false)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := app.do(t, http.MethodGet, "/public/posts/"+id+"/reviews", "", false)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// staff routes are not limited
	w = app.do(t, http.MethodGet, "/posts", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDecodeUpdateRequest(t *testing.T) {
	req, err := decodeUpdateRequest([]byte(`{"client_id":null,"title":"Novo","extra":1}`))
	require.NoError(t, err)
	require.NotNil(t, req.ClientID)
	assert.Equal(t, "", *req.ClientID)
	require.NotNil(t, req.Title)
	assert.Equal(t, "Novo", *req.Title)
	assert.Nil(t, req.Status)
	assert.Nil(t, req.Content)

	_, err = decodeUpdateRequest([]byte(`{"priority":["alta"]}`))
	assert.Error(t, err)

	req, err = decodeUpdateRequest([]byte("  "))
	require.NoError(t, err)
	assert.Nil(t, req.Title)
}
