// @title                       Travel Story API
// @version                     1.0
// @description                 Travel journal backend: accounts, stories and image uploads.
// @host                        localhost:8000
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/travelbook/story-api/internal/api"
	"github.com/travelbook/story-api/internal/api/handler"
	"github.com/travelbook/story-api/internal/core/ports"
	"github.com/travelbook/story-api/internal/core/service"
	"github.com/travelbook/story-api/internal/infrastructure/config"
	mongostore "github.com/travelbook/story-api/internal/infrastructure/db/mongo"
	rediscache "github.com/travelbook/story-api/internal/infrastructure/db/redis"
	"github.com/travelbook/story-api/internal/infrastructure/queue"
	"github.com/travelbook/story-api/internal/infrastructure/storage"
	"github.com/travelbook/story-api/pkg/logger"

	_ "github.com/travelbook/story-api/docs"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "story-api"})
		l := logger.Get()
		l.Fatal().Err(err).Msg("config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "story-api",
	})
	log.Info().Str("env", cfg.Env).Msg("config loaded, connecting to MongoDB and Redis")

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "story-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo")
	}

	users := mongostore.NewUserRepository(db)
	stories := mongostore.NewStoryRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, stories); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes")
	}

	rdb, err := rediscache.Connect(ctx, rediscache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}

	checks := []handler.DependencyCheck{handler.MongoCheck(db)}
	var cache ports.StoryCache
	if rdb != nil {
		cache = rediscache.NewStoryCache(rdb, cfg.Redis.CacheTTL)
		checks = append(checks, handler.RedisCheck(rdb))
	} else {
		log.Info().Msg("REDIS_ADDR not set, story cache disabled")
	}

	images, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("image store")
	}

	cleanup := queue.NewCleanupDispatcher(cfg.Storage.CleanupWorkers, images, log)
	cleanup.Start()

	tokens := service.NewTokenService(cfg.Auth.Secret)
	router := api.NewRouter(api.Deps{
		AuthService:  service.NewAuthService(users, tokens, cfg.Auth.RegisterTTL, cfg.Auth.LoginTTL, log),
		StoryService: service.NewStoryService(stories, cache, cleanup, cfg.PlaceholderImageURL(), log),
		ImageService: service.NewImageService(images, cfg.PublicBaseURL, log),
		Tokens:       tokens,
		Checks:       checks,
		AssetsDir:    cfg.Storage.AssetsDir,
		Log:          log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown")
	}

	cleanup.Stop()

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}

	disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDisconnect()
	if err := mongoClient.Disconnect(disconnectCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}

func newImageStore(ctx context.Context, cfg config.StorageConfig) (ports.ImageStore, error) {
	if cfg.Driver == config.StorageS3 {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    cfg.S3Prefix,
		})
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}

	local, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return local, nil
}
