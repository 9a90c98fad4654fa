package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_PATH", "ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY",
		"ARK_MODEL", "ARK_TEMPERATURE", "ARK_TOP_P", "ARK_MAX_TOKENS", "AI_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Store.DatabasePath)
	assert.False(t, cfg.AI.Enabled())
	assert.Equal(t, 30, cfg.AI.TimeoutSeconds)
	assert.Nil(t, cfg.AI.Temperature)
	assert.Nil(t, cfg.AI.MaxTokens)
}

func TestLoadServerAddr(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{name: "bare port", port: "9090", want: ":9090"},
		{name: "colon prefixed", port: ":9090", want: ":9090"},
		{name: "host and port", port: "127.0.0.1:9090", want: "127.0.0.1:9090"},
		{name: "padded", port: " 9090 ", want: ":9090"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Server.Addr)
		})
	}
}

func TestLoadRejectsMalformedPort(t *testing.T) {
	t.Setenv("PORT", "90 90")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadAISettings(t *testing.T) {
	t.Setenv("ARK_API_KEY", "test-key")
	t.Setenv("ARK_MODEL", "doubao-pro-32k")
	t.Setenv("ARK_TEMPERATURE", "0.7")
	t.Setenv("ARK_MAX_TOKENS", "2048")
	t.Setenv("AI_TIMEOUT_SECONDS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, "doubao-pro-32k", cfg.AI.Model)
	require.NotNil(t, cfg.AI.Temperature)
	assert.InDelta(t, 0.7, *cfg.AI.Temperature, 1e-9)
	require.NotNil(t, cfg.AI.MaxTokens)
	assert.Equal(t, 2048, *cfg.AI.MaxTokens)
	assert.Equal(t, 10, cfg.AI.TimeoutSeconds)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("ARK_TEMPERATURE", "hot")
	_, err := Load()
	assert.Error(t, err)
}

func TestAIConfigEnabled(t *testing.T) {
	assert.False(t, AIConfig{}.Enabled())
	assert.False(t, AIConfig{Model: "m"}.Enabled())
	assert.False(t, AIConfig{APIKey: "k"}.Enabled())
	assert.True(t, AIConfig{Model: "m", APIKey: "k"}.Enabled())
	assert.False(t, AIConfig{Model: "m", AccessKey: "ak"}.Enabled())
	assert.True(t, AIConfig{Model: "m", AccessKey: "ak", SecretKey: "sk"}.Enabled())
}
