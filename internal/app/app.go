package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-blog-api/internal/config"
	"go-blog-api/internal/database"
	"go-blog-api/internal/event"
	"go-blog-api/internal/handler"
	"go-blog-api/internal/middleware"
	"go-blog-api/internal/repository"
	"go-blog-api/internal/router"
	"go-blog-api/internal/service"
	"go-blog-api/internal/storage"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	appRouter, stop, err := NewHandler(ctx, cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			stop,
			db.Close,
		},
	}, nil
}

// NewHandler wires repositories, services and handlers over db. The returned
// stop function ends the background audit recorder.
func NewHandler(ctx context.Context, cfg *config.Config, db *database.DB) (http.Handler, func(), error) {
	media, mediaRoot, err := newMediaStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize media store: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	followRepo := repository.NewFollowRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	tokens, err := service.NewTokenIssuer(service.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		Issuer:        cfg.TokenIssuer,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	hasher, err := service.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	bus := event.NewBus()
	auditService := service.NewAuditService(auditRepo)
	auditCtx, auditCancel := context.WithCancel(context.WithoutCancel(ctx))
	auditService.Start(auditCtx, bus)

	sessionService := service.NewSessionService(userRepo, tokenRepo, tokens, hasher, media, bus, service.SessionConfig{
		RevokeOnPasswordChange: cfg.RevokeSessionsOnPasswordChange,
		MaxImageDimension:      cfg.ImageMaxDimension,
	})
	accountService := service.NewAccountService(userRepo, followRepo, media, bus, cfg.ImageMaxDimension)
	followService := service.NewFollowService(userRepo, followRepo, bus)
	categoryService := service.NewCategoryService(categoryRepo, bus)
	postService := service.NewPostService(postRepo, categoryRepo, media, bus, cfg.ImageMaxDimension)

	cookies := handler.CookieConfig{
		Secure:     cfg.CookieSecure,
		SameSite:   cfg.SameSite(),
		Domain:     cfg.CookieDomain,
		AccessTTL:  tokens.AccessTTL(),
		RefreshTTL: tokens.RefreshTTL(),
	}

	authMiddleware := middleware.NewAuthMiddleware(tokens, userRepo)
	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Health:   handler.NewHealthHandler(db),
		Session:  handler.NewSessionHandler(sessionService, cookies, cfg.MaxUploadSize),
		User:     handler.NewUserHandler(accountService, cookies, cfg.MaxUploadSize),
		Follow:   handler.NewFollowHandler(followService),
		Post:     handler.NewPostHandler(postService, cfg.MaxUploadSize),
		Category: handler.NewCategoryHandler(categoryService),
		Audit:    handler.NewAuditHandler(auditService),
	}, mediaRoot)

	return appRouter, auditCancel, nil
}

// newMediaStore picks the backend named by MEDIA_BACKEND. The returned root is
// non-empty only for the local backend, which the router then serves.
func newMediaStore(ctx context.Context, cfg *config.Config) (storage.MediaStore, string, error) {
	if cfg.MediaBackend == "s3" {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		slog.Info("media store ready", "backend", "s3", "bucket", cfg.S3Bucket)
		return store, "", nil
	}

	store, err := storage.NewLocalStore(cfg.MediaLocalRoot, cfg.MediaPublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	slog.Info("media store ready", "backend", "local", "root", store.Root())
	return store, store.Root(), nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Drain in-flight requests before closing the pool they use.
	shutdownErr := a.server.Shutdown(ctx)

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
