package filestore

import (
	"errors"
	"reflect"
	"testing"

	"ytexpert/internal/domain"
	"ytexpert/internal/index"
)

func buildTestIndex(t *testing.T) *index.Index {
	t.Helper()
	ix, err := index.Build("somechannel", [][]domain.Chunk{{
		{
			ChunkID: "v1_title", VideoID: "v1", ChannelName: "somechannel",
			Type: domain.ChunkTitle, Text: "a title", Embedding: []float32{0.25, -1.5, 3},
		},
		{
			ChunkID: "v1_transcript_0_5", VideoID: "v1", ChannelName: "somechannel",
			Type: domain.ChunkTranscript, Text: "transcript words",
			StartTime: 12.5, EndTime: 61.2, SegmentIndices: []int{0, 1, 2, 3, 4},
			Embedding: []float32{1e-8, 42, -0.001},
		},
	}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return ix
}

func TestStore_RoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ix := buildTestIndex(t)
	if err := store.Save(ix); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("somechannel")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// Positional correspondence and exact float values survive the trip.
	if !reflect.DeepEqual(loaded.Vectors(), ix.Vectors()) {
		t.Fatalf("vectors changed: %v != %v", loaded.Vectors(), ix.Vectors())
	}
	if !reflect.DeepEqual(loaded.Chunks(), ix.Chunks()) {
		t.Fatalf("chunks changed across persistence")
	}
	if loaded.Dimension() != 3 || loaded.ChunkCount() != 2 {
		t.Fatalf("metadata changed: dim=%d count=%d", loaded.Dimension(), loaded.ChunkCount())
	}

	// The same query ranks the same way against the reloaded snapshot.
	q := []float32{0.2, -1, 2.5}
	before, err := ix.Search(q, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	after, err := loaded.Search(q, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("search results differ after persistence")
	}
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Save(buildTestIndex(t)); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	replacement, err := index.Build("somechannel", [][]domain.Chunk{{
		{
			ChunkID: "v2_title", VideoID: "v2", ChannelName: "somechannel",
			Type: domain.ChunkTitle, Text: "new title", Embedding: []float32{1, 2},
		},
	}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := store.Save(replacement); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load("somechannel")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ChunkCount() != 1 || loaded.Chunks()[0].ChunkID != "v2_title" {
		t.Fatalf("old snapshot still visible after rebuild")
	}
}

func TestStore_LoadMissingChannel(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Load("neverbuilt")
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}
