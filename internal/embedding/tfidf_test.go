package embedding

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() []string {
	return []string{
		"The central bank raised interest rates sharply.",
		"Markets fell after the rate decision.",
		"A new trade agreement lifted exporter stocks.",
	}
}

func TestTFIDFPrepareAndEmbed(t *testing.T) {
	e := NewTFIDFEmbedder(filepath.Join(t.TempDir(), "model.json"))
	require.NoError(t, e.Prepare(testCorpus()))

	vec, err := e.Embed(context.Background(), "interest rates and markets")
	require.NoError(t, err)

	var norm float64
	nonZero := 0
	for _, v := range vec {
		norm += float64(v) * float64(v)
		if v != 0 {
			nonZero++
		}
	}
	assert.Greater(t, nonZero, 0)
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5, "vectors are L2-normalized")
}

func TestTFIDFEmbedIsDeterministic(t *testing.T) {
	e := NewTFIDFEmbedder(filepath.Join(t.TempDir(), "model.json"))
	require.NoError(t, e.Prepare(testCorpus()))

	a, err := e.Embed(context.Background(), "rate decision")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "rate decision")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTFIDFModelSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	fitted := NewTFIDFEmbedder(path)
	require.NoError(t, fitted.Prepare(testCorpus()))
	want, err := fitted.Embed(context.Background(), "trade agreement stocks")
	require.NoError(t, err)

	// A fresh instance stands in for a new process; it must load the
	// persisted model and produce identical vectors.
	reloaded := NewTFIDFEmbedder(path)
	got, err := reloaded.Embed(context.Background(), "trade agreement stocks")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTFIDFUnknownTokensGiveZeroVector(t *testing.T) {
	e := NewTFIDFEmbedder(filepath.Join(t.TempDir(), "model.json"))
	require.NoError(t, e.Prepare(testCorpus()))

	vec, err := e.Embed(context.Background(), "zebra xylophone")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestTFIDFEmbedWithoutModel(t *testing.T) {
	e := NewTFIDFEmbedder(filepath.Join(t.TempDir(), "missing.json"))
	_, err := e.Embed(context.Background(), "anything")
	assert.Error(t, err)
}

func TestTFIDFPrepareEmptyCorpus(t *testing.T) {
	e := NewTFIDFEmbedder(filepath.Join(t.TempDir(), "model.json"))
	assert.Error(t, e.Prepare(nil))
}
