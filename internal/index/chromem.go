package index

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/philippgille/chromem-go"

	"newsrag/internal/domain"
)

// Store is a similarity index persisted to a single directory on disk.
// The directory's existence is the sole signal that content has been
// processed. A build writes into a staging directory and renames it
// over the target only once every entry is in, so the previous index
// survives a failed build and readers never see partial state.
type Store struct {
	path       string
	collection string
}

func New(path, collection string) *Store {
	return &Store{path: path, collection: collection}
}

// Exists reports whether a persisted index is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Build persists a new index from the given chunks and their
// embeddings, atomically replacing any previous one.
func (s *Store) Build(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return fmt.Errorf("index build: %w", domain.ErrNoContent)
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("index build: %d chunks but %d vectors", len(chunks), len(vectors))
	}

	staging := s.path + ".build"
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("index build: %w", err)
	}
	db, err := chromem.NewPersistentDB(staging, false)
	if err != nil {
		return fmt.Errorf("index build: %w", err)
	}
	col, err := db.GetOrCreateCollection(s.collection, map[string]string{"hnsw:space": "cosine"}, nil)
	if err != nil {
		return fmt.Errorf("index build: %w", err)
	}

	ids := make([]string, len(chunks))
	metadatas := make([]map[string]string, len(chunks))
	contents := make([]string, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
		metadatas[i] = map[string]string{
			"url":      ch.URL,
			"position": strconv.Itoa(ch.Position),
		}
		contents[i] = ch.Text
	}
	if err := col.Add(ctx, ids, vectors, metadatas, contents); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("index build: %w", err)
	}

	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("index build: %w", err)
	}
	if err := os.Rename(staging, s.path); err != nil {
		return fmt.Errorf("index build: %w", err)
	}
	return nil
}

// Search loads a fresh snapshot of the persisted index and returns the
// top-k most similar chunks.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	if !s.Exists() {
		return nil, domain.ErrNoIndex
	}
	db, err := chromem.NewPersistentDB(s.path, false)
	if err != nil {
		return nil, fmt.Errorf("index load: %w", err)
	}
	col := db.GetCollection(s.collection, nil)
	if col == nil {
		return nil, domain.ErrNoIndex
	}
	count := col.Count()
	if count == 0 {
		return nil, domain.ErrNoIndex
	}
	if topK <= 0 || topK > count {
		topK = count
	}
	results, err := col.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	out := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		pos, _ := strconv.Atoi(r.Metadata["position"])
		out = append(out, domain.SearchResult{
			Chunk: domain.Chunk{
				ID:       r.ID,
				URL:      r.Metadata["url"],
				Text:     r.Content,
				Position: pos,
			},
			Score: float64(r.Similarity),
		})
	}
	return out, nil
}

// Clear deletes the persisted index. Deleting the directory is the
// sole clear operation.
func (s *Store) Clear() error {
	return os.RemoveAll(s.path)
}
