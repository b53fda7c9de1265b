package storage

import (
	"errors"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
)

var (
	ErrCacheDisabled   = errors.New("redis cache is not configured")
	ErrStorageDisabled = errors.New("supabase storage is not configured")
)

// StorageService fronts the Redis enhancement cache and the Supabase bucket
// that batch output files are archived to. Either backend may be absent.
type StorageService struct {
	sbClient    *storage_go.Client
	redisClient *redis.Client
	bucket      string
	cacheTTL    time.Duration
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{
		bucket:   cfg.Supabase.BUCKET,
		cacheTTL: cfg.Redis.CacheTTL,
	}

	if cfg.Supabase.URL != "" {
		s.sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	if cfg.Redis.Enabled {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return s, nil
}

func (s *StorageService) CacheEnabled() bool {
	return s.redisClient != nil
}

func (s *StorageService) UploadsEnabled() bool {
	return s.sbClient != nil && s.bucket != ""
}

func (s *StorageService) Close() error {
	if s.redisClient != nil {
		return s.redisClient.Close()
	}
	return nil
}
