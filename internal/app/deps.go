package app

import (
	"fmt"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/storage"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/cache"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/config"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/database"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/queue"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/s3"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Open connects to everything cfg enables. Postgres is required; redis and
// RabbitMQ are skipped when their host is unset. On error every connection
// opened so far is closed.
func Open(cfg *config.Config, log *logger.Logger) (deps Deps, err error) {
	defer func() {
		if err != nil {
			closeDeps(deps, log)
			deps = Deps{}
		}
	}()

	if deps.DB, err = database.NewPostgresDB(cfg); err != nil {
		return deps, err
	}

	if cfg.RedisEnabled() {
		if deps.Redis, err = cache.NewRedisClient(cfg); err != nil {
			return deps, err
		}
		log.Info("Connected to Redis at %s:%s", cfg.RedisHost, cfg.RedisPort)
	} else {
		log.Warn("REDIS_HOST not set: rate limiting and view de-duplication are off")
	}

	if cfg.QueueEnabled() {
		if deps.Queue, err = queue.NewRabbitMQClient(cfg, log); err != nil {
			return deps, err
		}
	} else {
		log.Warn("RABBITMQ_HOST not set: activity events are applied synchronously")
	}

	if deps.Store, err = newStore(cfg); err != nil {
		return deps, err
	}
	return deps, nil
}

func newStore(cfg *config.Config) (storage.FileStore, error) {
	switch cfg.StorageDriver {
	case StorageLocal, "":
		return storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	case StorageS3:
		client, err := s3.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func closeDeps(deps Deps, log *logger.Logger) {
	if deps.Queue != nil {
		if err := deps.Queue.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}
	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}
	if err := database.Close(deps.DB); err != nil {
		log.Error("Error closing database: %v", err)
	}
}
