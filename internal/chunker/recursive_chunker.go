package chunker

import (
	"strconv"
	"strings"

	"newsrag/internal/domain"
)

// defaultSeparators are tried most-specific-first: paragraph break,
// line break, sentence-ending punctuation, clause comma.
var defaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", ", "}

// RecursiveChunker splits text into fixed-size chunks along semantic
// boundaries, keeping a trailing overlap between consecutive chunks of
// the same document. Chunks are exact substrings of the document text,
// so concatenating them minus the overlap reproduces the original.
type RecursiveChunker struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func NewRecursiveChunker(chunkSize, chunkOverlap int) *RecursiveChunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 2
	}
	return &RecursiveChunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

func (c *RecursiveChunker) Chunk(document domain.Document) []domain.Chunk {
	text := []rune(document.Text)
	if len(strings.TrimSpace(document.Text)) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	start := 0
	idx := 0
	for start < len(text) {
		end := start + c.chunkSize
		if end >= len(text) {
			chunks = append(chunks, c.newChunk(document, text[start:], idx))
			break
		}
		// Snap the cut to the largest available semantic boundary
		// inside the window; fall back to a hard split at the limit.
		if cut := c.boundary(text[start:end]); cut > 0 {
			end = start + cut
		}
		chunks = append(chunks, c.newChunk(document, text[start:end], idx))
		idx++

		next := end - c.chunkOverlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// boundary returns the rune offset just past the last occurrence of the
// most specific separator present in window, or 0 if none exists.
func (c *RecursiveChunker) boundary(window []rune) int {
	s := string(window)
	for _, sep := range c.separators {
		if pos := strings.LastIndex(s, sep); pos > 0 {
			return len([]rune(s[:pos+len(sep)]))
		}
	}
	return 0
}

func (c *RecursiveChunker) newChunk(document domain.Document, text []rune, idx int) domain.Chunk {
	return domain.Chunk{
		ID:       document.URL + ":" + strconv.Itoa(idx),
		URL:      document.URL,
		Text:     string(text),
		Position: idx,
	}
}
