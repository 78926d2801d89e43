package domain

import "context"

// Fetcher retrieves and extracts plain text for a batch of URLs.
// A URL that cannot be fetched or parsed is excluded from the result
// rather than failing the batch; an empty result is the caller's
// problem to report.
type Fetcher interface {
	Fetch(ctx context.Context, urls []string) []Document
}

// Chunker splits a document into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) []Chunk
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
// Embed must be deterministic for a fixed input, including across
// process restarts, or a persisted index stops being queryable.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CompletionOptions control a single language-model call. The question
// generation and answering call sites carry independent settings.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
}

// Completer is the language-model inference boundary.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// Index is a persisted similarity index over chunk embeddings.
// Build atomically replaces any previously persisted index; Search
// always operates on a fresh snapshot of the persisted state.
type Index interface {
	Build(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Exists() bool
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	Clear() error
}

// Summarizer produces a brief digest of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// ResearchService defines the operations exposed by the application core.
type ResearchService interface {
	Process(ctx context.Context, urls []string) (*ProcessResult, error)
	Ask(ctx context.Context, question string) (*Answer, error)
	Clear() error
	Ready() bool
}
