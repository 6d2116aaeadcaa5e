package redis

import (
	"context"
	"io"
	"log/slog"

	backend "github.com/redis/go-redis/v9"
)

// World implements ports.WorldState as a Redis set of raised flags.
//
// WorldState has no error channel, so failures are logged and a flag that
// cannot be read is reported as unset.
type World struct {
	client *backend.Client
	key    string
	ctx    context.Context
	logger *slog.Logger
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithWorldKey sets the Redis key of the flag set.
func WithWorldKey(key string) WorldOption {
	return func(w *World) {
		w.key = key
	}
}

// WithWorldLogger sets the logger used for Redis failures.
func WithWorldLogger(logger *slog.Logger) WorldOption {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithContext bounds every Redis call made by the World.
func WithContext(ctx context.Context) WorldOption {
	return func(w *World) {
		w.ctx = ctx
	}
}

// NewWorld creates a World backed by client.
func NewWorld(client *backend.Client, opts ...WorldOption) *World {
	w := &World{
		client: client,
		key:    "parley:world:flags",
		ctx:    context.Background(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Flag reports whether name is raised.
func (w *World) Flag(name string) bool {
	ok, err := w.client.SIsMember(w.ctx, w.key, name).Result()
	if err != nil {
		w.logger.Error("failed to read world flag", "flag", name, "error", err)
		return false
	}
	return ok
}

// SetFlag raises or lowers name.
func (w *World) SetFlag(name string, value bool) {
	var err error
	if value {
		err = w.client.SAdd(w.ctx, w.key, name).Err()
	} else {
		err = w.client.SRem(w.ctx, w.key, name).Err()
	}
	if err != nil {
		w.logger.Error("failed to write world flag", "flag", name, "value", value, "error", err)
	}
}

// Flags lists every raised flag.
func (w *World) Flags() ([]string, error) {
	return w.client.SMembers(w.ctx, w.key).Result()
}
