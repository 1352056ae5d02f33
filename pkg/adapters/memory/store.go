package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/actionkit/pkg/domain"
)

type entry struct {
	flashes []domain.Flash
	expires time.Time
}

// Store implements ports.FlashStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*entry
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Option configures the Store.
type Option func(*Store)

// WithTTL expires queued messages that are not drained in time.
// A janitor goroutine sweeps expired keys; call Close to stop it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]*entry),
		now:  time.Now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.ttl > 0 {
		go s.janitor(s.ttl)
	} else {
		close(s.done)
	}
	return s
}

// Push queues a message for key.
func (s *Store) Push(ctx context.Context, key string, f domain.Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok || s.expired(e) {
		e = &entry{}
		s.data[key] = e
	}
	e.flashes = append(e.flashes, f)
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	return nil
}

// Drain returns and removes the messages queued for key.
func (s *Store) Drain(ctx context.Context, key string) ([]domain.Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	delete(s.data, key)
	if !ok || s.expired(e) {
		return []domain.Flash{}, nil
	}
	return e.flashes, nil
}

// Len reports the number of keys currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Sweep removes expired keys.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.data {
		if s.expired(e) {
			delete(s.data, k)
		}
	}
}

// Close stops the janitor. It is safe to call more than once.
func (s *Store) Close() error {
	s.once.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

func (s *Store) expired(e *entry) bool {
	return s.ttl > 0 && !e.expires.IsZero() && s.now().After(e.expires)
}

func (s *Store) janitor(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
