package interfaces

import (
	"autoclicker/domain/entities"
	"context"
)

// KVStore is a durable key-value store for JSON-encodable values
type KVStore interface {
	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value any) error

	// Get decodes the value under key into dst. Reports false when the key is absent.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Close releases the underlying resources
	Close() error
}

// SettingsStore persists the click configuration and the last used delay
type SettingsStore interface {
	SaveClickConfig(ctx context.Context, cfg entities.ClickConfiguration) error
	// LoadClickConfig returns nil when nothing was saved yet
	LoadClickConfig(ctx context.Context) (*entities.ClickConfiguration, error)
	SaveDelay(ctx context.Context, delayMs int) error
	// LoadDelay reports false when no delay was saved yet
	LoadDelay(ctx context.Context) (int, bool, error)
}
