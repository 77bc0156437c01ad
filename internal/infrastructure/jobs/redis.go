package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ShopifySEO/internal/config"
	"ShopifySEO/internal/domain"
	"ShopifySEO/internal/ports"
)

const (
	redisKeyPrefix = "shopifyseo:job:"
	redisJobTTL    = 24 * time.Hour
)

// RedisStore shares jobs across processes; entries expire with the same
// horizon as the on-disk output files they point at.
type RedisStore struct {
	client *redis.Client
}

var _ ports.JobStore = (*RedisStore)(nil)

// NewRedisStore connects a client from configuration.
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Ping verifies the connection at wiring time.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Create stores the job as JSON under its ID with a TTL.
func (s *RedisStore) Create(ctx context.Context, job *domain.Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+job.ID, payload, redisJobTTL).Err(); err != nil {
		return fmt.Errorf("store job %s: %w", job.ID, err)
	}
	return nil
}

// Get loads and decodes the job, mapping absent keys to ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", id, err)
	}

	var job domain.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}
