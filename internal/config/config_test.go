package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Path: "test.db"},
		Backend:  BackendConfig{BaseURL: "https://example.com/api"},
		Sync:     SyncConfig{IntervalMinutes: 15},
	}
}

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Server.Port = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Backend.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Backend.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Sync.IntervalMinutes = 0
	assert.Error(t, cfg.Validate())
}
