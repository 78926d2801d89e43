package domain

import "errors"

var (
	// ErrNoContent signals that fetching or chunking yielded zero
	// usable units; the build fails and any previous index is kept.
	ErrNoContent = errors.New("no content loaded")

	// ErrNoIndex signals that a question was asked before any
	// successful build persisted an index.
	ErrNoIndex = errors.New("no index available")

	// ErrUnrecognizedQuery signals that the question embedded to the
	// zero vector, so similarity search has nothing to rank on.
	ErrUnrecognizedQuery = errors.New("question has no recognizable terms")
)
