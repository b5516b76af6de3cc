package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CLIP_SERVER_URL", "http://localhost:5000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "openvocab-classifier", cfg.ServiceName)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, ProviderClipHTTP, cfg.Provider)
	assert.Equal(t, "openai/clip-vit-base-patch32", cfg.ModelID)
	assert.Equal(t, "cpu", cfg.Device)
	assert.Equal(t, 512, cfg.EmbedDimensions)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadConfigRequiresClipServerURL(t *testing.T) {
	t.Setenv("CLIP_SERVER_URL", "")
	t.Setenv("MODEL_PROVIDER", ProviderClipHTTP)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigOpenAIProviderNeedsNoClipServer(t *testing.T) {
	t.Setenv("CLIP_SERVER_URL", "")
	t.Setenv("MODEL_PROVIDER", ProviderOpenAI)
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "test-key", cfg.OpenAIAPIKey)
}

func TestLoadConfigSplitsAPIKeys(t *testing.T) {
	t.Setenv("CLIP_SERVER_URL", "http://localhost:5000")
	t.Setenv("CLIP_API_KEYS", "key-one, key-two,\tkey-three")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"key-one", "key-two", "key-three"}, cfg.ClipAPIKeys)
}

func TestLoadConfigInvalidDimensions(t *testing.T) {
	t.Setenv("CLIP_SERVER_URL", "http://localhost:5000")
	t.Setenv("EMBED_DIMENSIONS", "-8")

	_, err := LoadConfig()
	assert.Error(t, err)
}
