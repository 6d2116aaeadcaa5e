// Package redis persists assignments and world flags in Redis so several game
// processes can share conversation progress.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// AssignmentStore implements ports.AssignmentStore using Redis.
type AssignmentStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	locker *Locker
}

type Option func(*AssignmentStore)

// WithTTL sets the expiration of assignment records.
func WithTTL(ttl time.Duration) Option {
	return func(s *AssignmentStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for assignments.
func WithPrefix(prefix string) Option {
	return func(s *AssignmentStore) {
		s.prefix = prefix
	}
}

// NewClient connects to a Redis server.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// NewAssignmentStore creates a store from an existing client.
func NewAssignmentStore(client *backend.Client, opts ...Option) *AssignmentStore {
	s := &AssignmentStore{
		client: client,
		prefix: "parley:assignment:",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.locker = NewLocker(client, s.prefix)
	return s
}

func (s *AssignmentStore) key(identity string) string {
	return s.prefix + identity
}

func (s *AssignmentStore) indexKey() string {
	return s.prefix + "index"
}

// Save persists the assignment and indexes its identity.
func (s *AssignmentStore) Save(ctx context.Context, a *domain.Assignment) error {
	if a == nil || a.Identity() == "" {
		return fmt.Errorf("assignment identity cannot be empty")
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(a.Identity()), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), a.Identity())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the assignment of identity.
func (s *AssignmentStore) Load(ctx context.Context, identity string) (*domain.Assignment, error) {
	val, err := s.client.Get(ctx, s.key(identity)).Result()
	if errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAssignmentNotFound, identity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	a := domain.NewAssignment(identity, "")
	if err := json.Unmarshal([]byte(val), a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment: %w", err)
	}
	return a, nil
}

// Update loads, mutates and saves an assignment while holding a lock on it,
// so concurrent processes never lose an interaction.
// A missing record is created from fallback when it is not nil.
func (s *AssignmentStore) Update(ctx context.Context, identity string, fallback *domain.Assignment, fn func(*domain.Assignment) error) error {
	unlock, err := s.locker.Lock(ctx, identity, 5*time.Second)
	if err != nil {
		return err
	}
	defer unlock(context.WithoutCancel(ctx))

	a, err := s.Load(ctx, identity)
	if errors.Is(err, domain.ErrAssignmentNotFound) && fallback != nil {
		a, err = fallback, nil
	}
	if err != nil {
		return err
	}

	if err := fn(a); err != nil {
		return err
	}
	return s.Save(ctx, a)
}

// Delete removes the assignment.
func (s *AssignmentStore) Delete(ctx context.Context, identity string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(identity))
	pipe.SRem(ctx, s.indexKey(), identity)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns the identities of every saved assignment, pruning expired ones.
func (s *AssignmentStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	alive := ids[:0]
	for _, id := range ids {
		n, err := s.client.Exists(ctx, s.key(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check assignment %s: %w", id, err)
		}
		if n == 0 {
			s.client.SRem(ctx, s.indexKey(), id)
			continue
		}
		alive = append(alive, id)
	}
	return alive, nil
}

// Close closes the redis client.
func (s *AssignmentStore) Close() error {
	return s.client.Close()
}
