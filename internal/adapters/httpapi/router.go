package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"postflow/internal/adapters/httpapi/middleware"
	"postflow/internal/auth"
	postEntity "postflow/internal/core/post"
	reviewEntity "postflow/internal/core/review"
	clientPort "postflow/internal/ports/client"
	dashboardPort "postflow/internal/ports/dashboard"
	filePort "postflow/internal/ports/file"
	postPort "postflow/internal/ports/post"
	reviewPort "postflow/internal/ports/review"
	userPort "postflow/internal/ports/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserUseCase is the inbound port the controllers need from the user service.
type UserUseCase interface {
	LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error)
	RegisterUser(ctx context.Context, name, email, password string) (*userPort.UserDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, cu auth.CurrentUser, req postPort.CreatePostRequest) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, cu auth.CurrentUser, id string) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context, cu auth.CurrentUser, q string) ([]*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, cu auth.CurrentUser, id string, req postPort.UpdatePostRequest) error
	TransitionStatus(ctx context.Context, cu auth.CurrentUser, id, raw string) (postEntity.Status, error)
	PublicTransition(ctx context.Context, id, raw string) (postEntity.Status, error)
}

type ReviewUseCase interface {
	SubmitReviewMessage(ctx context.Context, postID, message string, author reviewEntity.AuthorType) (*reviewPort.ReviewDTO, error)
	SubmitStaffReview(ctx context.Context, cu auth.CurrentUser, postID, message string) (*reviewPort.ReviewDTO, error)
	ListReviews(ctx context.Context, cu auth.CurrentUser, postID string) ([]*reviewPort.ReviewDTO, error)
	ListPublicReviews(ctx context.Context, postID string) ([]*reviewPort.ReviewDTO, error)
	RequestAdjustment(ctx context.Context, postID, message string, actor postEntity.Actor) (*reviewPort.AdjustmentDTO, error)
}

type ClientUseCase interface {
	ListClients(ctx context.Context, cu auth.CurrentUser) ([]*clientPort.ClientDTO, error)
	CreateClient(ctx context.Context, cu auth.CurrentUser, req clientPort.SaveClientRequest) (*clientPort.ClientDTO, error)
	UpdateClient(ctx context.Context, cu auth.CurrentUser, id string, req clientPort.SaveClientRequest) (*clientPort.ClientDTO, error)
	DeleteClient(ctx context.Context, cu auth.CurrentUser, id string) error
	SlugAvailable(ctx context.Context, cu auth.CurrentUser, raw, excludeID string) (string, bool, error)
	PublicClientPosts(ctx context.Context, slug string) (*clientPort.PublicPostsDTO, error)
}

type FileUseCase interface {
	Upload(ctx context.Context, cu auth.CurrentUser, name string, size int64, contentType string, body io.Reader) (*filePort.FileDTO, error)
}

type CalendarUseCase interface {
	Calendar(ctx context.Context, cu auth.CurrentUser, q postPort.CalendarQuery) (*postPort.CalendarDTO, error)
	Board(ctx context.Context, cu auth.CurrentUser) (*postPort.BoardDTO, error)
}

type DashboardUseCase interface {
	Dashboard(ctx context.Context, cu auth.CurrentUser) (*dashboardPort.DashboardDTO, error)
}

type UseCases struct {
	Users     UserUseCase
	Posts     PostUseCase
	Reviews   ReviewUseCase
	Clients   ClientUseCase
	Files     FileUseCase
	Calendar  CalendarUseCase
	Dashboard DashboardUseCase
}

type Options struct {
	Tokens      *auth.TokenManager
	Limiter     middleware.Limiter // defaults to a per-process IP limiter
	CORSOrigins []string
	Logger      *zap.Logger
}

// Routing only: use cases are injected from outside
func SetupRoutes(uc UseCases, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = middleware.NewIPRateLimiter(60, time.Minute)
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	userCtl := NewUserController(uc.Users)
	postCtl := NewPostController(uc.Posts)
	reviewCtl := NewReviewController(uc.Reviews)
	clientCtl := NewClientController(uc.Clients)
	fileCtl := NewFileController(uc.Files)
	calendarCtl := NewCalendarController(uc.Calendar, uc.Dashboard)
	publicCtl := NewPublicController(uc.Posts, uc.Reviews, uc.Clients)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// register and login without the JWT middleware
	r.POST("/auth/register", userCtl.RegisterUser)
	r.POST("/auth/login", userCtl.LoginUser)

	staff := r.Group("/", middleware.JWTAuthMiddleware(opts.Tokens, logger))
	staff.POST("/posts", postCtl.CreatePost)
	staff.GET("/posts", postCtl.ListPosts)
	staff.GET("/posts/:id", postCtl.GetPost)
	staff.PUT("/posts/:id", postCtl.UpdatePost)
	staff.PATCH("/posts/:id/status", postCtl.UpdateStatus)
	staff.GET("/posts/:id/reviews", reviewCtl.ListReviews)
	staff.POST("/posts/:id/reviews", reviewCtl.CreateReview)

	staff.GET("/calendar", calendarCtl.GetCalendar)
	staff.GET("/board", calendarCtl.GetBoard)
	staff.GET("/dashboard", calendarCtl.GetDashboard)

	staff.GET("/clients", clientCtl.ListClients)
	staff.POST("/clients", clientCtl.CreateClient)
	staff.GET("/clients/slug-available", clientCtl.SlugAvailable)
	staff.PUT("/clients/:id", clientCtl.UpdateClient)
	staff.DELETE("/clients/:id", clientCtl.DeleteClient)

	staff.POST("/files", fileCtl.Upload)

	// client review link: no auth, rate limited per IP
	public := r.Group("/public", middleware.RateLimitMiddleware(limiter, logger))
	public.GET("/posts/:id/reviews", publicCtl.ListReviews)
	public.POST("/posts/:id/reviews", publicCtl.CreateReview)
	public.POST("/posts/:id/status", publicCtl.UpdateStatus)
	public.POST("/posts/:id/adjustments", publicCtl.RequestAdjustment)
	public.GET("/client/:slug/posts", publicCtl.ClientPosts)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AddAllowHeaders("Authorization")
	return cfg
}
