package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotforge/availability/pkg/config"
)

func TestNewLocalContainer(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	cfg := &config.Config{
		AppEnv:         "test",
		LocalMode:      true,
		DatabaseDriver: "sqlite",
		SQLitePath:     dbPath,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	container, err := NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, container)
	defer container.Close()

	assert.NotNil(t, container.SQLiteDB)
	assert.Nil(t, container.PostgresPool)
	assert.Nil(t, container.RedisClient)

	assert.NotNil(t, container.Cache)
	assert.NotNil(t, container.DirtySet)
	assert.NotNil(t, container.Publisher)
	assert.NotNil(t, container.CalculateSlotsHandler)
	assert.NotNil(t, container.HTTPServer)
	assert.Nil(t, container.Syncer, "no CALDAV_BASE_URL configured, syncer should stay unset")
}

func TestNewLocalContainer_WithCalDAV(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	cfg := &config.Config{
		AppEnv:         "test",
		LocalMode:      true,
		DatabaseDriver: "sqlite",
		SQLitePath:     dbPath,
		CalDAVBaseURL:  "https://caldav.example.com",
		CalDAVUsername: "alice",
		CalDAVPassword: "secret",
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	container, err := NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.Syncer)
}

func TestNewLocalContainer_InvalidPath(t *testing.T) {
	cfg := &config.Config{
		AppEnv:         "test",
		LocalMode:      true,
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "nested", "missing", "test.db"),
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	_, err := NewLocalContainer(context.Background(), cfg, logger)
	assert.Error(t, err)
}
