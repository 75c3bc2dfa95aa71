package storage

import (
	"autoclicker/domain/entities"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]*Settings {
	t.Helper()
	out := make(map[string]*Settings)
	for _, backend := range []string{BackendJSON, BackendSQLite} {
		s, err := Open(backend, t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		out[backend] = s
	}
	return out
}

func TestClickConfigRoundTrip(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := entities.ClickConfiguration{
				Points: []entities.Point{{X: 10, Y: 10}, {X: 20.5, Y: 20}, {X: 1, Y: 300}},
			}

			require.NoError(t, s.SaveClickConfig(ctx, cfg))
			loaded, err := s.LoadClickConfig(ctx)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, cfg.Points, loaded.Points)
		})
	}
}

func TestEmptyStore(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			cfg, err := s.LoadClickConfig(ctx)
			require.NoError(t, err)
			assert.Nil(t, cfg)

			_, ok, err := s.LoadDelay(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestDelayOverwrite(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SaveDelay(ctx, 100))
			require.NoError(t, s.SaveDelay(ctx, 250))

			delay, ok, err := s.LoadDelay(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 250, delay)
		})
	}
}

func TestSaveEmptyPoints(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SaveClickConfig(ctx, entities.ClickConfiguration{}))

			cfg, err := s.LoadClickConfig(ctx)
			require.NoError(t, err)
			require.NotNil(t, cfg)
			assert.NotNil(t, cfg.Points)
			assert.Empty(t, cfg.Points)
		})
	}
}

func TestSnapshot(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SaveDelay(ctx, 75))

			snap, err := s.Snapshot(ctx)
			require.NoError(t, err)
			assert.Nil(t, snap.ClickConfig)
			require.NotNil(t, snap.SavedDelay)
			assert.Equal(t, 75, *snap.SavedDelay)
		})
	}
}

func TestSettingsSurviveReopen(t *testing.T) {
	for _, backend := range []string{BackendJSON, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			s, err := Open(backend, dir)
			require.NoError(t, err)
			require.NoError(t, s.SaveDelay(ctx, 42))
			require.NoError(t, s.Close())

			reopened, err := Open(backend, dir)
			require.NoError(t, err)
			defer func() { _ = reopened.Close() }()

			delay, ok, err := reopened.LoadDelay(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 42, delay)
		})
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFile), []byte("{not json"), 0644))

	s, err := Open(BackendJSON, dir)
	require.NoError(t, err)

	_, _, err = s.LoadDelay(context.Background())
	assert.Error(t, err)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}

func TestSQLiteInMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", map[string]int{"a": 1}))

	var got map[string]int
	ok, err := store.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]int{"a": 1}, got)
}
