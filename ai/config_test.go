package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, cfg.EmbeddingHost, cfg.ChatHost)
	assert.Equal(t, 768, cfg.EmbeddingDimensions)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://models.internal:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithChatModel("gpt-4o-mini"),
		WithEmbeddingDimensions(1536),
		WithAPIKey("sk-test"),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://models.internal:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://models.internal:9100/v1", cfg.ChatHost)
	assert.Equal(t, 1536, cfg.EmbeddingDimensions)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestConfig_Normalize(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://a.internal/"),
		WithChatHost("http://b.internal/v1"),
	)
	cfg.APIKey = ""
	cfg.Normalize()

	assert.Equal(t, "http://a.internal/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://b.internal/v1", cfg.ChatHost)
	assert.Equal(t, "none", cfg.APIKey)
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewConfig()
	cfg.EmbeddingModel = ""
	assert.Error(t, cfg.Validate())

	cfg = NewConfig(WithEmbeddingDimensions(0))
	assert.Error(t, cfg.Validate())

	cfg = NewConfig(WithMaxSummaryWords(-1))
	assert.Error(t, cfg.Validate())
}
