// Package app wires the notes platform together and runs its HTTP server and
// background workers.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpController "github.com/Jascfer/allonetoplulugu-sub001/internal/controller/http"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/storage"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/config"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/database"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/jwt"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/middleware"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/queue"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/Jascfer/allonetoplulugu-sub001/docs" // Swagger docs
)

// Deps are the connections the process owns. Redis and Queue are optional.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
	Queue *queue.Client
	Store storage.FileStore
}

type App struct {
	cfg    *config.Config
	log    *logger.Logger
	deps   Deps
	router *gin.Engine
	server *http.Server

	uploads usecase.UploadUseCase
	auth    usecase.AuthUseCase

	ctx     context.Context
	stop    context.CancelFunc
	workers sync.WaitGroup
}

// New builds the use cases and the router. It starts nothing.
func New(cfg *config.Config, log *logger.Logger, deps Deps) (*App, error) {
	if cfg.DBAutoMigrate {
		if err := deps.DB.AutoMigrate(model.All()...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	validator, err := usecase.NewValidator()
	if err != nil {
		return nil, err
	}
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize repositories
	userRepo := persistent.NewUserRepository(deps.DB)
	noteRepo := persistent.NewNoteRepository(deps.DB)
	uploadRepo := persistent.NewUploadRepository(deps.DB)
	categoryRepo := persistent.NewCategoryRepository(deps.DB)
	communityRepo := persistent.NewCommunityRepository(deps.DB)
	questionRepo := persistent.NewQuestionRepository(deps.DB)
	likeRepo := persistent.NewLikeRepository(deps.DB)

	// Initialize use cases
	gamification := usecase.NewGamificationUseCase(userRepo, log)
	var publisher usecase.ActivityPublisher = usecase.NewSyncPublisher(gamification)
	if deps.Queue != nil {
		publisher = usecase.NewQueuePublisher(deps.Queue)
	}

	authUseCase := usecase.NewAuthUseCase(userRepo, jwtService, validator, cfg.BcryptCost, log)
	uploadUseCase := usecase.NewUploadUseCase(uploadRepo, deps.Store, cfg.UploadMaxBytes, cfg.UploadOrphanTTL, log)
	noteUseCase := usecase.NewNoteUseCase(noteRepo, uploadRepo, deps.Store, deps.Redis, publisher, validator, log)
	profileUseCase := usecase.NewProfileUseCase(userRepo, uploadRepo, deps.Store, validator, cfg.BcryptCost, log)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo, validator, log)
	communityUseCase := usecase.NewCommunityUseCase(communityRepo, likeRepo, publisher, validator, log)
	questionUseCase := usecase.NewQuestionUseCase(questionRepo, likeRepo, publisher, validator, log)
	adminUseCase := usecase.NewAdminUseCase(userRepo, noteRepo, communityRepo, questionRepo, categoryRepo, publisher, validator, log)

	a := &App{
		cfg:     cfg,
		log:     log,
		deps:    deps,
		uploads: uploadUseCase,
		auth:    authUseCase,
	}

	// Setup router
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		response.AbortFail(c, http.StatusInternalServerError, "Internal server error")
	}))
	r.MaxMultipartMemory = cfg.UploadMaxBytes

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Allow"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", a.health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if local, ok := deps.Store.(*storage.LocalStore); ok {
		r.Static("/uploads", local.Dir())
	}

	httpController.RegisterRoutes(r, httpController.Handlers{
		Auth:       httpController.NewAuthHandler(authUseCase, log),
		Notes:      httpController.NewNoteHandler(noteUseCase, log),
		Uploads:    httpController.NewUploadHandler(uploadUseCase, cfg.UploadMaxBytes, log),
		Users:      httpController.NewUserHandler(profileUseCase, log),
		Categories: httpController.NewCategoryHandler(categoryUseCase, log),
		Community:  httpController.NewCommunityHandler(communityUseCase, log),
		Questions:  httpController.NewQuestionHandler(questionUseCase, log),
		Admin:      httpController.NewAdminHandler(adminUseCase, log),
	},
		httpController.AuthFunc(authUseCase),
		middleware.RateLimitMiddleware(deps.Redis, cfg.RateLimitPerMinute, time.Minute),
		log,
	)

	a.router = r
	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.ctx, a.stop = context.WithCancel(context.Background())
	if deps.Queue != nil {
		if err := deps.Queue.Consume(a.ctx, usecase.ActivityHandler(gamification, log)); err != nil {
			a.stop()
			return nil, err
		}
	}

	return a, nil
}

// Router exposes the engine for in-process tests.
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{"database": "ok"}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if sqlDB, err := a.deps.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if a.deps.Redis != nil {
		checks["redis"] = "ok"
		if err := a.deps.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unavailable"
		}
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}

// Start launches the HTTP listener and the periodic sweeper.
func (a *App) Start() {
	go func() {
		a.log.Info("Notes service starting on port %s", a.cfg.ServerPort)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		a.sweepLoop()
	}()
}

func (a *App) sweepLoop() {
	interval := a.cfg.UploadSweepInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case now := <-ticker.C:
			a.sweep(a.ctx, now)
		}
	}
}

func (a *App) sweep(ctx context.Context, now time.Time) {
	removed, err := a.uploads.SweepOrphans(ctx, now)
	if err != nil {
		a.log.Error("Upload sweep failed: %v", err)
	} else if removed > 0 {
		a.log.Info("Removed %d orphaned uploads", removed)
	}

	purged, err := a.auth.PurgeExpiredSessions(ctx)
	if err != nil {
		a.log.Error("Session purge failed: %v", err)
	} else if purged > 0 {
		a.log.Info("Purged %d expired sessions", purged)
	}
}

// Shutdown stops the workers, drains HTTP, then releases the queue, redis and
// database connections in that order.
func (a *App) Shutdown(ctx context.Context) error {
	a.stop()
	a.workers.Wait()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if a.deps.Queue != nil {
		if err := a.deps.Queue.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq: %w", err))
		}
	}
	if a.deps.Redis != nil {
		if err := a.deps.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := database.Close(a.deps.DB); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}

// Run starts the app and blocks until SIGINT or SIGTERM.
func Run(cfg *config.Config, log *logger.Logger, deps Deps) error {
	a, err := New(cfg, log, deps)
	if err != nil {
		closeDeps(deps, log)
		return err
	}
	a.Start()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notes service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		log.Error("Shutdown finished with errors: %v", err)
		return err
	}

	log.Info("Notes service exited")
	return nil
}
