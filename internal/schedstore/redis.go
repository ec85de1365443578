package schedstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis server.
type Redis struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Redis store.
type Option func(*Redis)

// WithTTL sets the expiration of stored schedules. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Redis) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Redis) {
		s.prefix = prefix
	}
}

// NewRedis creates a store using an existing client.
func NewRedis(client *backend.Client, opts ...Option) *Redis {
	s := &Redis{
		client: client,
		prefix: "l1topo:schedule:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Redis) key(digest string) string {
	return s.prefix + digest
}

// Save persists the schedule under its digest.
func (s *Redis) Save(ctx context.Context, sched *Schedule) error {
	data, err := json.Marshal(sched)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sched.Digest), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the schedule stored for digest.
func (s *Redis) Load(ctx context.Context, digest string) (*Schedule, error) {
	val, err := s.client.Get(ctx, s.key(digest)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var sched Schedule
	if err := json.Unmarshal(val, &sched); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}
	return &sched, nil
}

// Close closes the redis client.
func (s *Redis) Close() error {
	return s.client.Close()
}
