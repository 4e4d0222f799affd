package credential

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/dropin/pkg/linkedin"
)

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithRedisPrefix sets the key prefix. Keys are stored as "{prefix}:{id}".
// Default: "linkedin:credential".
func WithRedisPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// WithRedisTTL expires credentials after d. Zero keeps them until deleted.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = max(d, 0)
	}
}

// Redis stores credentials as JSON documents in Redis.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store.
// The client lifecycle stays with the caller.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: "linkedin:credential"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put overwrites the whole document stored under cred.ID.
func (r *Redis) Put(ctx context.Context, cred *linkedin.Credential) error {
	if err := validate(cred); err != nil {
		return err
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}
	if err := r.client.Set(ctx, r.key(cred.ID), data, r.ttl).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// Get returns linkedin.ErrCredentialNotFound when the key does not exist.
func (r *Redis) Get(ctx context.Context, id string) (*linkedin.Credential, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, linkedin.ErrCredentialNotFound
		}
		return nil, errors.Join(ErrStore, err)
	}

	var cred linkedin.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return &cred, nil
}

// Delete removes the credential.
func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (r *Redis) key(id string) string {
	if r.prefix == "" {
		return id
	}
	return r.prefix + ":" + id
}

var _ linkedin.Store = (*Redis)(nil)
