package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iho/timelimit/internal/domain"
	"github.com/iho/timelimit/internal/infrastructure/config"
)

// OverrideStore keeps bound overrides in a Redis hash whose fields are
// configuration keys (<namespace>.timeout.<category>.<edge>).
type OverrideStore struct {
	client     *redis.Client
	key        string
	maxRetries uint64
}

// NewOverrideStore creates a new OverrideStore over the hash at key.
func NewOverrideStore(client *redis.Client, key string) *OverrideStore {
	return &OverrideStore{
		client:     client,
		key:        key,
		maxRetries: 3,
	}
}

// Snapshot reads the whole hash once. Transient failures are retried with
// exponential backoff. A missing hash yields an empty map.
func (s *OverrideStore) Snapshot(ctx context.Context) (map[string]string, error) {
	var values map[string]string

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 50 * time.Millisecond
	exp.MaxInterval = time.Second
	b := backoff.WithMaxRetries(exp, s.maxRetries)

	err := backoff.Retry(func() error {
		res, err := s.client.HGetAll(ctx, s.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			return err
		}
		values = res
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides from %s: %w", s.key, err)
	}

	return values, nil
}

// Source snapshots the hash and returns an override source bound to namespace.
func (s *OverrideStore) Source(ctx context.Context, namespace string) (*config.ParameterSource, error) {
	values, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return config.NewParameterSource(namespace, config.MapLookup(values)), nil
}

// Set stores one edge override in whole milliseconds. Durations with a
// sub-millisecond remainder are rejected.
func (s *OverrideStore) Set(ctx context.Context, namespace, category string, edge domain.Edge, d time.Duration) error {
	if err := domain.ValidateCategoryName(category); err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("%w: negative value %s", domain.ErrInvalidDuration, d)
	}
	if d%time.Millisecond != 0 {
		return fmt.Errorf("%w: %s is not a whole number of milliseconds", domain.ErrInvalidDuration, d)
	}
	field := config.Key(namespace, category, edge)
	return s.client.HSet(ctx, s.key, field, d.Milliseconds()).Err()
}

// Delete removes one edge override.
func (s *OverrideStore) Delete(ctx context.Context, namespace, category string, edge domain.Edge) error {
	return s.client.HDel(ctx, s.key, config.Key(namespace, category, edge)).Err()
}
