package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	require.NotNil(t, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 250, *cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 3, cfg.Fetcher.MaxURLs)
	assert.Equal(t, "embeddings_folder", cfg.Index.Path)
	assert.Equal(t, 4, cfg.Index.TopK)
	assert.Equal(t, 10, cfg.Questions.Count)
	assert.Equal(t, 8, cfg.Questions.SampleSize)
	assert.Equal(t, "openai", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
}

func TestCallSitesAreIndependentlyConfigured(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg.LLM.Generation.Temperature)
	require.NotNil(t, cfg.LLM.Answer.Temperature)
	assert.Greater(t, *cfg.LLM.Generation.Temperature, *cfg.LLM.Answer.Temperature,
		"generation is exploratory, answering is grounded")
	assert.NotZero(t, cfg.LLM.Generation.MaxTokens)
	assert.NotZero(t, cfg.LLM.Answer.MaxTokens)
}

func TestExplicitZeroValuesSurviveDefaulting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "chunker:\n  chunk_overlap: 0\nllm:\n  answer:\n    temperature: 0.0\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 0, *cfg.Chunker.ChunkOverlap)
	require.NotNil(t, cfg.LLM.Answer.Temperature)
	assert.Zero(t, *cfg.LLM.Answer.Temperature)
	// Unset siblings still get their defaults.
	require.NotNil(t, cfg.LLM.Generation.Temperature)
	assert.Equal(t, float32(0.8), *cfg.LLM.Generation.Temperature)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Chunker.ChunkSize = 500
	cfg.Index.Path = "custom_index"
	cfg.Embedder.Type = "tfidf"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, loaded.Chunker.ChunkSize)
	assert.Equal(t, "custom_index", loaded.Index.Path)
	assert.Equal(t, "tfidf", loaded.Embedder.Type)
	require.NotNil(t, loaded.Embedder.TFIDF)
	assert.Equal(t, "tfidf_model.json", loaded.Embedder.TFIDF.ModelPath)
}
