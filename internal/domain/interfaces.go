package domain

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float32, error)
}

// Segmenter splits a normalized video document into retrievable chunks.
// Segmenting the same document twice yields identical chunk ids and text.
type Segmenter interface {
	Segment(doc VideoDocument) ([]Chunk, error)
}
