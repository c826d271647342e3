package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/staranysa/TheHappyHaul/internal/config"
	"github.com/staranysa/TheHappyHaul/internal/handlers"
	"github.com/staranysa/TheHappyHaul/internal/metadata"
	"github.com/staranysa/TheHappyHaul/internal/repository"
	"github.com/staranysa/TheHappyHaul/internal/services"
	"github.com/staranysa/TheHappyHaul/internal/storage"
	"github.com/staranysa/TheHappyHaul/pkg/logger"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := repository.OpenBackend(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Storage initialization failed")
	}
	defer closeBackend()

	imageStore, uploadsDir, err := openImageStore(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Upload storage initialization failed")
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(backend)
	datasetRepo := repository.NewDatasetRepository(backend)

	// --- Services ---
	extractor := metadata.NewExtractor(cfg.MetadataTimeout)
	userService := services.NewUserService(userRepo, cfg.JWTSecret, cfg.TokenExpiry)
	wishlistService := services.NewWishlistService(datasetRepo, userRepo, extractor)

	// Heal both documents once at startup so problems surface in the logs early.
	stats := wishlistService.Stats(ctx)
	logger.Log.WithField("stats", stats).Info("Data loaded")

	// --- Handlers ---
	router := handlers.NewRouter(handlers.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		UploadsDir:     uploadsDir,
		Users:          handlers.NewUserHandler(userService),
		Kids:           handlers.NewKidHandler(wishlistService),
		Media:          handlers.NewMediaHandler(imageStore, extractor),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Log.WithField("port", cfg.Port).Info("Server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Fatal("Server stopped with error")
	}
	logger.Log.Info("Server stopped")
}

// openImageStore returns the configured upload store and, for local storage,
// the directory to serve under /uploads/.
func openImageStore(cfg *config.Config) (storage.ImageStore, string, error) {
	if cfg.UploadBackend == config.UploadS3 {
		store, err := storage.NewS3ImageStore(cfg.S3)
		return store, "", err
	}
	store := storage.NewLocalImageStore(cfg.UploadsDir)
	return store, store.Dir(), nil
}
