package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/gothumb/internal/api/handler"
	"github.com/hszk-dev/gothumb/internal/api/middleware"
	"github.com/hszk-dev/gothumb/internal/config"
	"github.com/hszk-dev/gothumb/internal/domain/model"
	"github.com/hszk-dev/gothumb/internal/infrastructure/cache"
	"github.com/hszk-dev/gothumb/internal/infrastructure/cmr"
	"github.com/hszk-dev/gothumb/internal/infrastructure/download"
	"github.com/hszk-dev/gothumb/internal/resizer"
	"github.com/hszk-dev/gothumb/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	imageCache, closeCache, err := newImageCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	cmrClient := cmr.NewClient(cmr.ClientConfig{
		RootURL: cfg.CMR.RootURL,
		Token:   cfg.CMR.Token,
	}, logger)
	defer cmrClient.Close()

	downloader := download.NewHTTPDownloader(download.Config{
		TimeoutDelta:    cfg.Download.TimeoutDelta,
		FallbackTimeout: cfg.Download.FallbackTimeout,
	}, logger)

	imagingResizer := resizer.NewImagingResizer()
	placeholder := resizer.NewPlaceholderBuilder(imagingResizer)

	svc := usecase.NewThumbnailService(
		imageCache,
		cmrClient,
		downloader,
		imagingResizer,
		placeholder,
		usecase.ThumbnailServiceConfig{CacheTTL: cfg.Cache.TTL},
		logger,
	)

	thumbnailHandler := handler.NewThumbnailHandler(svc, handler.ThumbnailHandlerConfig{
		DefaultDimensions: model.Dimensions{
			Height: cfg.Thumbnail.DefaultHeight,
			Width:  cfg.Thumbnail.DefaultWidth,
		},
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	r := setupRouter(logger, thumbnailHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newImageCache builds the configured cache backend. The connection is
// created once here and reused by every request.
func newImageCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.ImageCache, func(), error) {
	switch cfg.Cache.Backend {
	case "minio":
		minioCache, err := cache.NewMinIOImageCache(ctx, cache.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MinIO: %w", err)
		}
		logger.Info("connected to MinIO", slog.String("bucket", cfg.MinIO.Bucket))
		return minioCache, func() {}, nil

	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// A dead cache degrades to misses at request time; only log here.
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, continuing with degraded cache",
				slog.String("addr", cfg.Redis.Addr()),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr()))
		}

		return cache.NewRedisImageCache(redisClient), func() { redisClient.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func setupRouter(logger *slog.Logger, thumbnail *handler.ThumbnailHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/scale/{conceptType}/{conceptID}", thumbnail.Scale)

	return r
}
