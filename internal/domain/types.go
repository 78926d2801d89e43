package domain

// Document is the plain text extracted from one article URL.
type Document struct {
	URL  string
	Text string
}

// Chunk is a bounded, overlap-aware segment of a document used for indexing.
type Chunk struct {
	ID       string
	URL      string
	Text     string
	Position int
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Answer is a grounded answer with the source URLs of the retrieved
// chunks, deduplicated in order of first appearance.
type Answer struct {
	Text    string
	Sources []string
}

// ProcessResult summarizes one successful build of the index.
type ProcessResult struct {
	Documents int
	Chunks    int
	Summary   string
	Questions []string
	// Notice carries non-fatal problems (skipped URLs, question
	// generation falling back) for the UI to display.
	Notice string
}
