package domain

import "errors"

// Recoverable conditions reported by the retrieval engine. Callers
// discriminate with errors.Is; none of these is process-fatal.
var (
	// ErrNoEmbeddings is returned by an index build when the channel has no
	// embedded chunks at all.
	ErrNoEmbeddings = errors.New("no embeddings found")

	// ErrDimensionMismatch is returned when a vector's width differs from the
	// width the index or batch was established with. This one must surface
	// loudly: padding or truncating would corrupt every distance afterwards.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrIndexNotFound is returned by a search when no index has been built
	// for the channel yet.
	ErrIndexNotFound = errors.New("index not found")

	// ErrEmptyDocument is returned when a source document is missing or holds
	// no usable content.
	ErrEmptyDocument = errors.New("empty source document")
)
