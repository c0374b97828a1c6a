// Package kvstore persists each store as a single JSON snapshot under a string key
// and serializes read-modify-write cycles on that key.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store loads and saves JSON snapshots.
type Store interface {
	// Load decodes the snapshot at key into dest. It reports false when the key has never been saved.
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

func encode(key string, value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	return payload, nil
}

func decode(key string, payload []byte, dest any) error {
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return nil
}
