package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsrag/internal/domain"
)

// reconstruct joins chunks back into the original text by dropping each
// chunk's leading overlap when it matches the tail of what came before.
func reconstruct(chunks []domain.Chunk, overlap int) string {
	var b strings.Builder
	for i, ch := range chunks {
		if i == 0 {
			b.WriteString(ch.Text)
			continue
		}
		runes := []rune(ch.Text)
		acc := []rune(b.String())
		if overlap <= len(runes) && overlap <= len(acc) &&
			string(acc[len(acc)-overlap:]) == string(runes[:overlap]) {
			b.WriteString(string(runes[overlap:]))
		} else {
			b.WriteString(ch.Text)
		}
	}
	return b.String()
}

func TestChunkEmptyDocument(t *testing.T) {
	c := NewRecursiveChunker(100, 10)
	assert.Nil(t, c.Chunk(domain.Document{URL: "http://a", Text: ""}))
	assert.Nil(t, c.Chunk(domain.Document{URL: "http://a", Text: "   \n\n  "}))
}

func TestChunkShortDocumentSingleChunk(t *testing.T) {
	c := NewRecursiveChunker(100, 10)
	chunks := c.Chunk(domain.Document{URL: "http://a", Text: "Just one short paragraph."})
	require.Len(t, chunks, 1)
	assert.Equal(t, "Just one short paragraph.", chunks[0].Text)
	assert.Equal(t, "http://a:0", chunks[0].ID)
	assert.Equal(t, 0, chunks[0].Position)
}

func TestChunkSizeLimitAndProvenance(t *testing.T) {
	text := strings.Repeat("The market moved sharply on the tariff news. ", 60)
	c := NewRecursiveChunker(200, 40)
	chunks := c.Chunk(domain.Document{URL: "http://news/article", Text: text})
	require.Greater(t, len(chunks), 1)
	for i, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch.Text)), 200)
		assert.Equal(t, "http://news/article", ch.URL)
		assert.Equal(t, i, ch.Position)
	}
}

func TestChunkCoverageRoundTrip(t *testing.T) {
	text := "First paragraph about trade policy.\n\nSecond paragraph about markets. It has two sentences.\n\nThird paragraph, with a clause, and more text to push the splitter past a single chunk."
	c := NewRecursiveChunker(60, 10)
	chunks := c.Chunk(domain.Document{URL: "http://a", Text: text})
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, reconstruct(chunks, 10))
}

func TestChunkOverlapInvariant(t *testing.T) {
	text := strings.Repeat("Alpha beta gamma delta epsilon. ", 30)
	overlap := 8
	c := NewRecursiveChunker(100, overlap)
	chunks := c.Chunk(domain.Document{URL: "http://a", Text: text})
	require.Greater(t, len(chunks), 2)
	for i := 0; i < len(chunks)-1; i++ {
		prev := []rune(chunks[i].Text)
		next := []rune(chunks[i+1].Text)
		require.GreaterOrEqual(t, len(prev), overlap)
		require.GreaterOrEqual(t, len(next), overlap)
		assert.Equal(t, string(prev[len(prev)-overlap:]), string(next[:overlap]),
			"chunks %d and %d should share the overlap window", i, i+1)
	}
}

func TestChunkNoBoundaryHardSplit(t *testing.T) {
	text := strings.Repeat("x", 250)
	c := NewRecursiveChunker(100, 0)
	chunks := c.Chunk(domain.Document{URL: "http://a", Text: text})
	require.Len(t, chunks, 3)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch.Text), 100)
	}
	assert.Equal(t, text, reconstruct(chunks, 0))
}

func TestChunkDocumentsDoNotMix(t *testing.T) {
	c := NewRecursiveChunker(30, 5)
	a := c.Chunk(domain.Document{URL: "http://a", Text: "Topic one sentence. Another about topic one."})
	b := c.Chunk(domain.Document{URL: "http://b", Text: "Completely different subject here. More of it."})
	for _, ch := range a {
		assert.Equal(t, "http://a", ch.URL)
	}
	for _, ch := range b {
		assert.Equal(t, "http://b", ch.URL)
	}
}

func TestChunkSpecExample(t *testing.T) {
	c := NewRecursiveChunker(20, 5)
	chunks := c.Chunk(domain.Document{URL: "http://a", Text: "Sentence one. Sentence two. Sentence three."})
	require.GreaterOrEqual(t, len(chunks), 2)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch.Text)), 20)
		assert.Equal(t, "http://a", ch.URL)
	}
}
