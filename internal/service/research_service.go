package service

import (
	"context"
	"fmt"
	"strings"

	"newsrag/internal/domain"
	"newsrag/internal/questions"
)

// ResearchServiceImpl wires the fetch → chunk → embed → index build
// pipeline and the index → retrieve → answer path. All calls are
// synchronous and blocking; failures surface to the caller without
// retries.
type ResearchServiceImpl struct {
	fetcher    domain.Fetcher
	chunker    domain.Chunker
	embedder   domain.Embedder
	index      domain.Index
	completer  domain.Completer
	summarizer domain.Summarizer
	generator  *questions.Generator

	topK            int
	maxURLs         int
	summarySentence int
	answerOpts      domain.CompletionOptions
}

// Config carries the service-level knobs.
type Config struct {
	TopK            int
	MaxURLs         int
	SummarySentence int
	AnswerOptions   domain.CompletionOptions
}

func NewResearchService(
	fetcher domain.Fetcher,
	chunker domain.Chunker,
	embedder domain.Embedder,
	index domain.Index,
	completer domain.Completer,
	summarizer domain.Summarizer,
	generator *questions.Generator,
	cfg Config,
) *ResearchServiceImpl {
	if cfg.TopK <= 0 {
		cfg.TopK = 4
	}
	if cfg.MaxURLs <= 0 {
		cfg.MaxURLs = 3
	}
	if cfg.SummarySentence <= 0 {
		cfg.SummarySentence = 3
	}
	return &ResearchServiceImpl{
		fetcher:         fetcher,
		chunker:         chunker,
		embedder:        embedder,
		index:           index,
		completer:       completer,
		summarizer:      summarizer,
		generator:       generator,
		topK:            cfg.TopK,
		maxURLs:         cfg.MaxURLs,
		summarySentence: cfg.SummarySentence,
		answerOpts:      cfg.AnswerOptions,
	}
}

// Process fetches the URLs, chunks and embeds their text, and
// atomically replaces the persisted index. The previous index is kept
// until the new one has fully persisted. Suggested questions and the
// content digest are produced afterwards; their failures are notices,
// not build failures.
func (s *ResearchServiceImpl) Process(ctx context.Context, urls []string) (*domain.ProcessResult, error) {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			cleaned = append(cleaned, u)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("no URLs provided")
	}
	if len(cleaned) > s.maxURLs {
		cleaned = cleaned[:s.maxURLs]
	}

	docs := s.fetcher.Fetch(ctx, cleaned)
	if len(docs) == 0 {
		return nil, fmt.Errorf("none of the URLs could be loaded: %w", domain.ErrNoContent)
	}

	var chunks []domain.Chunk
	var texts []string
	var fullText strings.Builder
	for _, doc := range docs {
		for _, ch := range s.chunker.Chunk(doc) {
			chunks = append(chunks, ch)
			texts = append(texts, ch.Text)
		}
		fullText.WriteString(doc.Text)
		fullText.WriteString("\n")
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("chunking produced nothing usable: %w", domain.ErrNoContent)
	}

	if err := s.embedder.Prepare(texts); err != nil {
		return nil, fmt.Errorf("prepare embedder: %w", err)
	}
	vectors := make([][]float32, len(chunks))
	for i, ch := range chunks {
		vec, err := s.embedder.Embed(ctx, ch.Text)
		if err != nil {
			// Whole build fails; the old index stays in place.
			return nil, fmt.Errorf("embed chunk %s: %w", ch.ID, err)
		}
		vectors[i] = vec
	}
	if err := s.index.Build(ctx, chunks, vectors); err != nil {
		return nil, err
	}

	result := &domain.ProcessResult{
		Documents: len(docs),
		Chunks:    len(chunks),
	}
	if len(docs) < len(cleaned) {
		result.Notice = fmt.Sprintf("%d of %d URLs could not be loaded", len(cleaned)-len(docs), len(cleaned))
	}

	summary, err := s.summarizer.Summarize(fullText.String(), s.summarySentence)
	if err != nil {
		result.Notice = appendNotice(result.Notice, fmt.Sprintf("digest unavailable: %v", err))
	} else {
		result.Summary = summary
	}

	qs, err := s.generator.Generate(ctx, chunks)
	result.Questions = qs
	if err != nil {
		result.Notice = appendNotice(result.Notice, fmt.Sprintf("suggested questions degraded: %v", err))
	}
	return result, nil
}

// Ask answers a free-text question from the persisted index. The index
// existence check runs before any embedding or model call.
func (s *ResearchServiceImpl) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}
	if !s.index.Exists() {
		return nil, fmt.Errorf("process URLs first: %w", domain.ErrNoIndex)
	}

	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	// A question made entirely of stopwords or unknown terms embeds to
	// the zero vector; similarity over it is meaningless.
	if isZeroVector(vec) {
		return nil, fmt.Errorf("cannot search for %q: %w", question, domain.ErrUnrecognizedQuery)
	}
	results, err := s.index.Search(ctx, vec, s.topK)
	if err != nil {
		return nil, err
	}

	prompt := buildAnswerPrompt(results, question)
	answer, err := s.completer.Complete(ctx, prompt, s.answerOpts)
	if err != nil {
		return nil, fmt.Errorf("answer generation: %w", err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(answer),
		Sources: uniqueSources(results),
	}, nil
}

// Clear deletes the persisted index; the next question will report
// that no index is available.
func (s *ResearchServiceImpl) Clear() error {
	return s.index.Clear()
}

// Ready reports whether a persisted index exists.
func (s *ResearchServiceImpl) Ready() bool {
	return s.index.Exists()
}

func appendNotice(notice, add string) string {
	if notice == "" {
		return add
	}
	return notice + "; " + add
}

func isZeroVector(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func buildAnswerPrompt(results []domain.SearchResult, question string) string {
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("[Excerpt %d, source: %s]\n%s", i+1, r.Chunk.URL, r.Chunk.Text))
	}
	return fmt.Sprintf(`You are a research assistant. Answer the question using only the context below.
If the context does not contain the answer, say you don't know; do not make anything up.

[Context]
%s

[Question]
%s

Answer:`, strings.Join(blocks, "\n\n---\n\n"), question)
}

// uniqueSources dedups retrieved chunk URLs, preserving the order of
// first appearance.
func uniqueSources(results []domain.SearchResult) []string {
	seen := make(map[string]struct{}, len(results))
	var urls []string
	for _, r := range results {
		if _, ok := seen[r.Chunk.URL]; ok {
			continue
		}
		seen[r.Chunk.URL] = struct{}{}
		urls = append(urls, r.Chunk.URL)
	}
	return urls
}
