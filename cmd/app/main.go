package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	cloudinaryadapter "postflow/internal/adapters/cloudinary"
	dbadapter "postflow/internal/adapters/database"
	"postflow/internal/adapters/httpapi"
	"postflow/internal/adapters/httpapi/middleware"
	"postflow/internal/adapters/memory"
	natsadapter "postflow/internal/adapters/nats"
	redisadapter "postflow/internal/adapters/redis"
	"postflow/internal/auth"
	"postflow/internal/config"
	calendarapp "postflow/internal/core/calendar/service"
	clientapp "postflow/internal/core/client/service"
	dashboardapp "postflow/internal/core/dashboard/service"
	fileapp "postflow/internal/core/file/service"
	postapp "postflow/internal/core/post/service"
	reviewapp "postflow/internal/core/review/service"
	userapp "postflow/internal/core/user/service"
	clientPort "postflow/internal/ports/client"
	filePort "postflow/internal/ports/file"
	outboxPort "postflow/internal/ports/outbox"
	postPort "postflow/internal/ports/post"
	reviewPort "postflow/internal/ports/review"
	storagePort "postflow/internal/ports/storage"
	userPort "postflow/internal/ports/user"
	"postflow/internal/workers"

	"github.com/go-redis/redis/v8"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

type repositories struct {
	users   userPort.UserRepository
	posts   postPort.PostRepository
	reviews reviewPort.ReviewRepository
	clients clientPort.ClientRepository
	files   filePort.FileRepository
	outbox  outboxPort.OutboxRepository
}

// resources is everything closeResources has to release on shutdown.
type resources struct {
	db    *gorm.DB
	redis *redis.Client
	nats  *nats.Conn
}

func main() {
	settings, err := config.Load()
	if err != nil {
		// logger is not configured yet
		config.InitLogger("development").Fatal("Invalid configuration", zap.Error(err))
	}
	logger := config.InitLogger(settings.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var res resources
	defer closeResources(&res, logger)

	repos, err := openRepositories(settings, &res, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}

	// optional services: each one has a local fallback
	limiter := middleware.Limiter(middleware.NewIPRateLimiter(settings.RateLimitPerMinute, time.Minute))
	var urlCache storagePort.URLCache
	if settings.RedisAddr != "" {
		if res.redis, err = config.OpenRedis(ctx, settings, logger); err != nil {
			logger.Fatal("Redis unavailable", zap.Error(err))
		}
		limiter = redisadapter.NewRateLimiterRedis(res.redis, settings.RateLimitPerMinute, time.Minute)
		urlCache = redisadapter.NewURLCacheRedis(res.redis)
	}

	var store storagePort.MediaStore = memory.NewMediaStore()
	if settings.CloudinaryURL != "" {
		cld, err := cloudinaryadapter.NewMediaStore(settings.CloudinaryURL)
		if err != nil {
			logger.Fatal("Cloudinary unavailable", zap.Error(err))
		}
		store = cld
	} else {
		logger.Warn("CLOUDINARY_URL not set, media is kept in memory")
	}

	tokens := auth.NewTokenManager([]byte(settings.JWTSecret), tokenTTL)

	userSvc := userapp.NewUserService(repos.users, tokens, logger)
	postSvc := postapp.NewPostService(repos.posts, repos.clients, repos.reviews, repos.files, logger)
	postSvc.Location = settings.Location
	reviewSvc := reviewapp.NewReviewService(repos.reviews, repos.posts, logger)
	fileSvc := fileapp.NewFileService(repos.files, store, urlCache, settings.StorageBucket, logger)
	clientSvc := clientapp.NewClientService(repos.clients, repos.posts, repos.files, fileSvc, logger)
	calendarSvc := calendarapp.NewCalendarService(repos.posts, repos.clients, repos.reviews, settings.Location)
	dashboardSvc := dashboardapp.NewDashboardService(repos.posts, repos.clients, repos.reviews)

	r := httpapi.SetupRoutes(httpapi.UseCases{
		Users:     userSvc,
		Posts:     postSvc,
		Reviews:   reviewSvc,
		Clients:   clientSvc,
		Files:     fileSvc,
		Calendar:  calendarSvc,
		Dashboard: dashboardSvc,
	}, httpapi.Options{
		Tokens:      tokens,
		Limiter:     limiter,
		CORSOrigins: settings.CORSOrigins,
		Logger:      logger,
	})

	if settings.NATSURL != "" {
		if res.nats, err = config.OpenNATS(settings, logger); err != nil {
			logger.Fatal("NATS unavailable", zap.Error(err))
		}
		worker := workers.NewOutboxWorker(repos.outbox, natsadapter.NewPublisher(res.nats),
			settings.OutboxBatchSize, settings.OutboxPollInterval, logger)
		go worker.Run(ctx)
	} else {
		logger.Warn("NATS_URL not set, outbox events stay pending")
	}

	srv := &http.Server{
		Addr:              ":" + settings.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}

func openRepositories(settings *config.Settings, res *resources, logger *zap.Logger) (repositories, error) {
	if settings.DBDriver == config.DriverMemory {
		logger.Warn("DB_DRIVER=memory, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			users:   memory.NewUserRepository(store),
			posts:   memory.NewPostRepository(store),
			reviews: memory.NewReviewRepository(store),
			clients: memory.NewClientRepository(store),
			files:   memory.NewFileRepository(store),
			outbox:  memory.NewOutboxRepository(store),
		}, nil
	}

	db, err := config.OpenDB(settings, logger)
	if err != nil {
		return repositories{}, err
	}
	res.db = db
	if err := dbadapter.Migrate(db, logger); err != nil {
		return repositories{}, err
	}
	return repositories{
		users:   dbadapter.NewUserRepositoryDatabase(db),
		posts:   dbadapter.NewPostRepositoryDatabase(db),
		reviews: dbadapter.NewReviewRepositoryDatabase(db),
		clients: dbadapter.NewClientRepositoryDatabase(db),
		files:   dbadapter.NewFileRepositoryDatabase(db),
		outbox:  dbadapter.NewOutboxRepositoryDatabase(db),
	}, nil
}

// closeResources closes the connections that were opened.
func closeResources(res *resources, logger *zap.Logger) {
	if res.nats != nil {
		if err := res.nats.Drain(); err != nil {
			logger.Error("Error draining NATS connection", zap.Error(err))
		}
	}

	if res.redis != nil {
		if err := res.redis.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}

	if res.db == nil {
		return
	}
	sqlDB, err := res.db.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
