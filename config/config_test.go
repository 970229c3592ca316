package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Equal(t, "dall-e-3", cfg.ImageModel)
	assert.Equal(t, "1024x1024", cfg.ImageSize)
	assert.Equal(t, "b64_json", cfg.ImageResponseFormat)
	assert.Equal(t, 30, cfg.GatewayRPM)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "SERVER_ADDRESS: \":9090\"\nCHAT_MODEL: gpt-4o-mini\nALLOWED_ORIGIN: http://localhost:9090/\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("CHAT_MODEL", "gpt-4.1")
	t.Setenv("GATEWAY_RPM", "0")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "gpt-4.1", cfg.ChatModel, "environment wins over the file")
	assert.Equal(t, "http://localhost:9090", cfg.AllowedOrigin)
	assert.Equal(t, 0, cfg.GatewayRPM)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("IMAGE_RESPONSE_FORMAT", "jpeg")
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
