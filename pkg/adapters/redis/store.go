package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/actionkit/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.FlashStore using a Redis list per session.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of undrained messages.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "actionkit:flash:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(session string) string {
	return s.prefix + session
}

// Push appends the message to the session list and refreshes its TTL.
func (s *Store) Push(ctx context.Context, key string, f domain.Flash) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal flash: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.key(key), data)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(key), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push flash to redis: %w", err)
	}
	return nil
}

// Drain reads and deletes the session list atomically.
func (s *Store) Drain(ctx context.Context, key string) ([]domain.Flash, error) {
	pipe := s.client.TxPipeline()
	values := pipe.LRange(ctx, s.key(key), 0, -1)
	pipe.Del(ctx, s.key(key))

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to drain flash from redis: %w", err)
	}

	raw, err := values.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read flash list: %w", err)
	}

	flashes := make([]domain.Flash, 0, len(raw))
	for _, item := range raw {
		var f domain.Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal flash: %w", err)
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
