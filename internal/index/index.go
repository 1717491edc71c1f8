package index

import (
	"fmt"
	"sort"
	"time"

	"ytexpert/internal/domain"
)

// Metadata describes a built index snapshot.
type Metadata struct {
	ChannelName string    `json:"channel_name"`
	ChunkCount  int       `json:"chunk_count"`
	Dimension   int       `json:"dimension"`
	Digest      string    `json:"digest,omitempty"`
	BuiltAt     time.Time `json:"built_at"`
}

// Index is the searchable snapshot for one channel. It owns both the vector
// sequence and the embedding-stripped chunk metadata, and the two are always
// position-aligned: vectors[i] is the embedding of chunks[i]. Keeping both
// behind one constructor is deliberate; loading them separately is how the
// alignment silently breaks.
//
// An Index is immutable after construction, so Search may be called
// concurrently without locking.
type Index struct {
	meta    Metadata
	vectors [][]float32
	chunks  []domain.Chunk
}

// Build constructs a fresh index from a channel's chunk collections, in
// collection order then record order. Every chunk must carry an embedding of
// the same width; the width of the first one fixes the index dimension.
func Build(channel string, collections [][]domain.Chunk) (*Index, error) {
	total := 0
	for _, coll := range collections {
		total += len(coll)
	}
	if total == 0 {
		return nil, fmt.Errorf("channel %s: %w", channel, domain.ErrNoEmbeddings)
	}

	vectors := make([][]float32, 0, total)
	chunks := make([]domain.Chunk, 0, total)
	dim := 0
	for _, coll := range collections {
		for _, ch := range coll {
			if dim == 0 {
				dim = len(ch.Embedding)
				if dim == 0 {
					return nil, fmt.Errorf("chunk %s has no embedding: %w", ch.ChunkID, domain.ErrNoEmbeddings)
				}
			}
			if len(ch.Embedding) != dim {
				return nil, fmt.Errorf("chunk %s: vector width %d, index width %d: %w",
					ch.ChunkID, len(ch.Embedding), dim, domain.ErrDimensionMismatch)
			}
			vec := make([]float32, dim)
			copy(vec, ch.Embedding)
			vectors = append(vectors, vec)
			chunks = append(chunks, ch.WithoutEmbedding())
		}
	}

	return &Index{
		meta: Metadata{
			ChannelName: channel,
			ChunkCount:  total,
			Dimension:   dim,
			BuiltAt:     time.Now().UTC(),
		},
		vectors: vectors,
		chunks:  chunks,
	}, nil
}

// New reassembles an index from persisted parts. It is the only way to pair
// a vector sequence with chunk metadata, and it refuses misaligned input.
func New(meta Metadata, vectors [][]float32, chunks []domain.Chunk) (*Index, error) {
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("channel %s: %d vectors for %d chunks: %w",
			meta.ChannelName, len(vectors), len(chunks), domain.ErrDimensionMismatch)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("channel %s: %w", meta.ChannelName, domain.ErrNoEmbeddings)
	}
	for i, vec := range vectors {
		if len(vec) != meta.Dimension {
			return nil, fmt.Errorf("vector %d: width %d, index width %d: %w",
				i, len(vec), meta.Dimension, domain.ErrDimensionMismatch)
		}
	}
	meta.ChunkCount = len(chunks)
	return &Index{meta: meta, vectors: vectors, chunks: chunks}, nil
}

// Metadata returns the snapshot metadata.
func (ix *Index) Metadata() Metadata { return ix.meta }

// Dimension returns the embedding width of the index.
func (ix *Index) Dimension() int { return ix.meta.Dimension }

// ChunkCount returns the number of indexed chunks.
func (ix *Index) ChunkCount() int { return len(ix.chunks) }

// SetDigest attaches a human-readable channel digest to the metadata.
func (ix *Index) SetDigest(digest string) { ix.meta.Digest = digest }

// Vectors exposes the stored vector sequence for persistence. Callers must
// treat it as read-only.
func (ix *Index) Vectors() [][]float32 { return ix.vectors }

// Chunks exposes the aligned chunk metadata for persistence. Callers must
// treat it as read-only.
func (ix *Index) Chunks() []domain.Chunk { return ix.chunks }

// Texts returns the indexed chunk texts in position order.
func (ix *Index) Texts() []string {
	texts := make([]string, len(ix.chunks))
	for i, ch := range ix.chunks {
		texts[i] = ch.Text
	}
	return texts
}

// Search scans every stored vector with exact squared-Euclidean distance and
// returns up to topK nearest chunks, best first. Equal distances keep their
// original index order, so identical queries always return identical hit
// lists. A topK beyond the stored count returns everything available.
func (ix *Index) Search(query []float32, topK int) ([]domain.SearchHit, error) {
	if len(query) != ix.meta.Dimension {
		return nil, fmt.Errorf("query width %d, index width %d: %w",
			len(query), ix.meta.Dimension, domain.ErrDimensionMismatch)
	}
	if topK <= 0 {
		return nil, nil
	}

	type scored struct {
		pos  int
		dist float64
	}
	scores := make([]scored, len(ix.vectors))
	for i, vec := range ix.vectors {
		scores[i] = scored{pos: i, dist: squaredL2(query, vec)}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].dist < scores[b].dist })

	if topK > len(scores) {
		topK = len(scores)
	}
	hits := make([]domain.SearchHit, 0, topK)
	for _, s := range scores[:topK] {
		if s.pos < 0 || s.pos >= len(ix.chunks) {
			continue
		}
		hits = append(hits, domain.SearchHit{
			Chunk:    ix.chunks[s.pos],
			Distance: s.dist,
			Score:    1.0 / (1.0 + s.dist),
		})
	}
	return hits, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
