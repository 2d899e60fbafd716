package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const activityKey = "callcenter:activity"

type ActivityEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// ActivityRepo keeps the audit trail fed by the event handlers: one
// entry per ticket received or booked.
type ActivityRepo struct {
	rdb *redis.Client
}

func NewActivityRepo(rdb *redis.Client) *ActivityRepo {
	return &ActivityRepo{rdb: rdb}
}

func (r *ActivityRepo) Append(ctx context.Context, message string) error {
	raw, err := json.Marshal(ActivityEntry{At: time.Now(), Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal activity entry: %w", err)
	}

	if err := r.rdb.RPush(ctx, activityKey, raw).Err(); err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest last.
func (r *ActivityRepo) Recent(ctx context.Context, limit int) ([]ActivityEntry, error) {
	raws, err := r.rdb.LRange(ctx, activityKey, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read activity entries: %w", err)
	}

	entries := make([]ActivityEntry, 0, len(raws))
	for _, raw := range raws {
		var entry ActivityEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
