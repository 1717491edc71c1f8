package embedding

import (
	"errors"
	"testing"

	"ytexpert/internal/domain"
)

// fakeEmbedder returns canned vectors per text.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) Name() string                 { return "fake" }
func (f *fakeEmbedder) Prepare(corpus []string) error { return nil }
func (f *fakeEmbedder) Dimension() int               { return 3 }
func (f *fakeEmbedder) Embed(text string) ([]float32, error) {
	return f.vectors[text], nil
}

func TestAttach_InOrder(t *testing.T) {
	chunks := []domain.Chunk{
		{ChunkID: "v_title", Text: "alpha"},
		{ChunkID: "v_description_0", Text: "beta"},
	}
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
	}}
	if err := Attach(chunks, emb); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if chunks[0].Embedding[0] != 1 || chunks[1].Embedding[1] != 1 {
		t.Fatalf("vectors attached out of order: %v, %v", chunks[0].Embedding, chunks[1].Embedding)
	}
}

func TestAttach_DimensionMismatch(t *testing.T) {
	chunks := []domain.Chunk{
		{ChunkID: "a", Text: "alpha"},
		{ChunkID: "b", Text: "beta"},
	}
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1},
	}}
	err := Attach(chunks, emb)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestAttach_EmptyVector(t *testing.T) {
	chunks := []domain.Chunk{{ChunkID: "a", Text: "alpha"}}
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	err := Attach(chunks, emb)
	if !errors.Is(err, domain.ErrNoEmbeddings) {
		t.Fatalf("expected ErrNoEmbeddings, got %v", err)
	}
}
