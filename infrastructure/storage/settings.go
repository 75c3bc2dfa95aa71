package storage

import (
	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"
	"context"
	"fmt"
)

// Backend names accepted by Open
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Settings stores the persisted settings on top of a key-value store
type Settings struct {
	kv interfaces.KVStore
}

// NewSettings wraps kv
func NewSettings(kv interfaces.KVStore) *Settings {
	return &Settings{kv: kv}
}

// Open creates the settings store for backend under dir
func Open(backend, dir string) (*Settings, error) {
	var (
		kv  interfaces.KVStore
		err error
	)
	switch backend {
	case BackendJSON, "":
		kv, err = NewJSONStore(dir)
	case BackendSQLite:
		kv, err = NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return NewSettings(kv), nil
}

func (s *Settings) SaveClickConfig(ctx context.Context, cfg entities.ClickConfiguration) error {
	if cfg.Points == nil {
		cfg.Points = []entities.Point{}
	}
	return s.kv.Set(ctx, entities.SettingClickConfig, cfg)
}

func (s *Settings) LoadClickConfig(ctx context.Context) (*entities.ClickConfiguration, error) {
	var cfg entities.ClickConfiguration
	ok, err := s.kv.Get(ctx, entities.SettingClickConfig, &cfg)
	if err != nil || !ok {
		return nil, err
	}
	return &cfg, nil
}

func (s *Settings) SaveDelay(ctx context.Context, delayMs int) error {
	return s.kv.Set(ctx, entities.SettingSavedDelay, delayMs)
}

func (s *Settings) LoadDelay(ctx context.Context) (int, bool, error) {
	var delay int
	ok, err := s.kv.Get(ctx, entities.SettingSavedDelay, &delay)
	return delay, ok, err
}

// Snapshot reads every persisted setting
func (s *Settings) Snapshot(ctx context.Context) (entities.PersistedSettings, error) {
	var out entities.PersistedSettings

	cfg, err := s.LoadClickConfig(ctx)
	if err != nil {
		return out, err
	}
	out.ClickConfig = cfg

	delay, ok, err := s.LoadDelay(ctx)
	if err != nil {
		return out, err
	}
	if ok {
		out.SavedDelay = &delay
	}
	return out, nil
}

// Close closes the underlying store
func (s *Settings) Close() error {
	return s.kv.Close()
}

var _ interfaces.SettingsStore = (*Settings)(nil)
