package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const endpointKey = "callcenter:settings:endpoint"

// SettingsRepo persists the remote endpoint URL so a configured
// endpoint survives restarts.
type SettingsRepo struct {
	rdb *redis.Client
}

func NewSettingsRepo(rdb *redis.Client) *SettingsRepo {
	return &SettingsRepo{rdb: rdb}
}

// Endpoint returns the stored endpoint URL, or "" when none is set.
func (r *SettingsRepo) Endpoint(ctx context.Context) (string, error) {
	endpoint, err := r.rdb.Get(ctx, endpointKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read endpoint setting: %w", err)
	}
	return endpoint, nil
}

func (r *SettingsRepo) SetEndpoint(ctx context.Context, endpoint string) error {
	if err := r.rdb.Set(ctx, endpointKey, endpoint, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist endpoint setting: %w", err)
	}
	return nil
}
