package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, storagePostgres, config.Storage.Backend)
	assert.True(t, config.Events.WebSocket)
	assert.False(t, config.Events.NATS.Enabled)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  shutdown_timeout: 3s
storage:
  backend: memory
events:
  websocket: false
  nats:
    enabled: true
    url: nats://broker:4222
`), 0o600))
	t.Setenv("PORT", "9100")

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", config.Server.Port)
	assert.Equal(t, 3*time.Second, config.Server.ShutdownTimeout)
	assert.Equal(t, storageMemory, config.Storage.Backend)
	assert.False(t, config.Events.WebSocket)
	assert.True(t, config.Events.NATS.Enabled)
	assert.Equal(t, "nats://broker:4222", config.Events.NATS.URL)
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	config := defaultConfig()
	catalog, err := loadCatalog(config)
	require.NoError(t, err)
	assert.Same(t, preset.Default(), catalog)

	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default: "2-1"
bench_size: 2
presets:
  - name: "2-1"
    slots:
      - { id: gk, label: GK, x: 50, y: 90 }
      - { id: cb, label: CB, x: 50, y: 60 }
      - { id: st, label: ST, x: 50, y: 20 }
`), 0o600))
	config.Formation.PresetsFile = path
	catalog, err = loadCatalog(config)
	require.NoError(t, err)
	assert.Equal(t, []string{"2-1"}, catalog.Names())
	assert.Equal(t, 2, catalog.BenchSize())
}
