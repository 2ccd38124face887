package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"osfr/docs"
	"osfr/internal/auth"
	"osfr/internal/cache"
	"osfr/internal/config"
	"osfr/internal/db"
	"osfr/internal/handler"
	"osfr/internal/logger"
	"osfr/internal/repository"
	"osfr/internal/router"
	"osfr/internal/service"
	"osfr/internal/storage"
)

const (
	shutdownTimeout  = 10 * time.Second
	janitorQueueSize = 64
)

// @title OSFR Catalog API
// @version 1.0
// @description Catalog of resources, instructions and downloadable software with a JWT protected admin API.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	l, err := logger.New(cfg.Production)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	gormDB, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			l.Warn("close database", zap.Error(err))
		}
	}()

	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if cacheClient.Enabled() {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			l.Warn("redis unreachable, caching degrades to misses", zap.Error(err))
		}
		cancel()
	}

	softwareStore, imageStore, err := openStores(cfg.Storage)
	if err != nil {
		return err
	}
	janitor := storage.NewJanitor(l.Named("janitor"), janitorQueueSize)
	defer janitor.Close()

	if !cfg.Production && cfg.Auth.JWTSecret == "" {
		l.Warn("JWT_SECRET is empty, login and admin routes will fail")
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHash)
	if err != nil {
		return err
	}
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	resourceRepo := repository.NewResourceRepository(gormDB)
	instructionRepo := repository.NewInstructionRepository(gormDB)
	softwareRepo := repository.NewSoftwareRepository(gormDB)
	imageRepo := repository.NewImageRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(accountRepo, jwtService, hasher, tokenStore)
	catalogService := service.NewCatalogService(categoryRepo, resourceRepo, instructionRepo, softwareRepo, cacheClient)
	resourceService := service.NewResourceService(resourceRepo, catalogService)
	instructionService := service.NewInstructionService(instructionRepo, catalogService)
	softwareService := service.NewSoftwareService(softwareRepo, catalogService, softwareStore, janitor, l.Named("software"))
	imageService := service.NewImageService(imageRepo, imageStore, janitor, service.ImageOptions{
		ServerURL: cfg.ServerURL,
		MaxBytes:  cfg.Storage.ImageMaxBytes,
	}, l.Named("images"))

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, l, authService, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Catalog:     handler.NewCatalogHandler(catalogService),
		Resource:    handler.NewResourceHandler(resourceService),
		Instruction: handler.NewInstructionHandler(instructionService),
		Software:    handler.NewSoftwareHandler(softwareService),
		Image:       handler.NewImageHandler(imageService),
	})

	if !cfg.Production {
		docs.SwaggerInfo.Host = swaggerHost(cfg)
		l.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		l.Info("server listening", zap.String("addr", addr), zap.String("storage", cfg.Storage.Backend))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// openStores builds the software and image stores for the configured backend.
func openStores(cfg config.Storage) (storage.Store, storage.Store, error) {
	if cfg.Backend == config.BackendS3 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return storage.NewS3Store(client, cfg.S3Bucket, "software"),
			storage.NewS3Store(client, cfg.S3Bucket, "images"), nil
	}

	software, err := storage.NewFSStore(cfg.SoftwareDir)
	if err != nil {
		return nil, nil, fmt.Errorf("software store: %w", err)
	}
	images, err := storage.NewFSStore(cfg.ImageDir)
	if err != nil {
		return nil, nil, fmt.Errorf("image store: %w", err)
	}
	return software, images, nil
}

// swaggerHost strips any scheme from SWAGGER_HOST; the doc wants host[:port] only.
func swaggerHost(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		return "localhost:" + cfg.ServerPort
	}
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "https://")
	return strings.TrimRight(host, "/")
}

func swaggerURL(cfg *config.Config) string {
	scheme := "http://"
	if strings.HasPrefix(cfg.SwaggerHost, "https://") {
		scheme = "https://"
	}
	return scheme + swaggerHost(cfg) + "/swagger/index.html"
}
