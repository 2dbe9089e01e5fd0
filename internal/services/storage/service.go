package storage

import (
	"time"

	"github.com/phambaophuc/id-photo-studio/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

// StorageService holds the Redis result cache and, when Supabase is
// configured, the bucket that completed photos are archived to.
type StorageService struct {
	sbClient      *storage_go.Client
	sbURL         string
	sbKey         string
	redisClient   *redis.Client
	bucket        string
	cacheDuration time.Duration
	logger        *zap.Logger
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewStorageService(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) *StorageService {
	var sbClient *storage_go.Client
	sbURL := ""
	if cfg.Supabase.URL != "" {
		sbURL = cfg.Supabase.URL + "/storage/v1"
		sbClient = storage_go.NewClient(sbURL, cfg.Supabase.KEY, nil)
	} else {
		logger.Warn("SUPABASE_URL not set, result archiving disabled")
	}

	cacheDuration := cfg.Storage.CacheDuration
	if cacheDuration <= 0 {
		cacheDuration = 24 * time.Hour
	}

	return &StorageService{
		sbClient:      sbClient,
		sbURL:         sbURL,
		sbKey:         cfg.Supabase.KEY,
		redisClient:   redisClient,
		bucket:        cfg.Supabase.BUCKET,
		cacheDuration: cacheDuration,
		logger:        logger,
	}
}

func (s *StorageService) ArchiveEnabled() bool {
	return s.sbClient != nil
}

// uploadClient returns a client for a single upload. storage-go applies file
// options to headers shared by the whole client.
func (s *StorageService) uploadClient() *storage_go.Client {
	return storage_go.NewClient(s.sbURL, s.sbKey, nil)
}
