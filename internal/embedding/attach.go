package embedding

import (
	"fmt"

	"ytexpert/internal/domain"
)

// Attach embeds every chunk's text and attaches the vectors in input order.
// The batch dimension is whatever the embedder returns for the first chunk;
// any later vector of a different width fails the whole batch with
// domain.ErrDimensionMismatch rather than being truncated or padded.
func Attach(chunks []domain.Chunk, embedder domain.Embedder) error {
	dim := 0
	for i := range chunks {
		vec, err := embedder.Embed(chunks[i].Text)
		if err != nil {
			return fmt.Errorf("embed chunk %s: %w", chunks[i].ChunkID, err)
		}
		if len(vec) == 0 {
			return fmt.Errorf("embed chunk %s: %w", chunks[i].ChunkID, domain.ErrNoEmbeddings)
		}
		if dim == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return fmt.Errorf("chunk %s: vector width %d, batch width %d: %w",
				chunks[i].ChunkID, len(vec), dim, domain.ErrDimensionMismatch)
		}
		chunks[i].Embedding = vec
	}
	return nil
}
