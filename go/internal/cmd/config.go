package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	storagePostgres = "postgres"
	storageMemory   = "memory"
)

type Config struct {
	Server struct {
		Port            string        `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Formation struct {
		PresetsFile string `yaml:"presets_file"`
	} `yaml:"formation"`
	Storage struct {
		Backend string `yaml:"backend"`
	} `yaml:"storage"`
	Events struct {
		WebSocket bool `yaml:"websocket"`
		// PostgresListen feeds the WebSocket hub from row notifications so
		// watchers see saves made by every instance.
		PostgresListen bool `yaml:"postgres_listen"`
		NATS      struct {
			Enabled       bool   `yaml:"enabled"`
			URL           string `yaml:"url"`
			StreamName    string `yaml:"stream_name"`
			SubjectPrefix string `yaml:"subject_prefix"`
		} `yaml:"nats"`
	} `yaml:"events"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Storage.Backend = storagePostgres
	cfg.Events.WebSocket = true
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// loadConfig reads the YAML config at path over the defaults; a missing file
// leaves the defaults. Environment variables win over both.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.Storage.Backend = getEnv("STORAGE_BACKEND", config.Storage.Backend)
	config.Formation.PresetsFile = getEnv("PRESETS_FILE", config.Formation.PresetsFile)
	config.Events.NATS.Enabled = getEnvAsBool("NATS_ENABLED", config.Events.NATS.Enabled)
	config.Events.NATS.URL = getEnv("NATS_URL", config.Events.NATS.URL)
	config.Events.PostgresListen = getEnvAsBool("POSTGRES_LISTEN", config.Events.PostgresListen)

	if config.Storage.Backend != storagePostgres && config.Storage.Backend != storageMemory {
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
	return config, nil
}

func loadCatalog(config *Config) (*preset.Catalog, error) {
	if config.Formation.PresetsFile == "" {
		return preset.Default(), nil
	}

	f, err := os.Open(config.Formation.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open presets file: %w", err)
	}
	defer f.Close()

	catalog, err := preset.Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	log.Info().
		Str("path", config.Formation.PresetsFile).
		Strs("presets", catalog.Names()).
		Msg("loaded preset catalog")
	return catalog, nil
}
