package sqlitestore

import (
	"errors"
	"reflect"
	"testing"

	"ytexpert/internal/domain"
	"ytexpert/internal/index"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func buildTestIndex(t *testing.T, channel string, ids []string) *index.Index {
	t.Helper()
	coll := make([]domain.Chunk, len(ids))
	for i, id := range ids {
		coll[i] = domain.Chunk{
			ChunkID: id, VideoID: "v1", ChannelName: channel,
			Type: domain.ChunkTitle, Text: "text " + id,
			Embedding: []float32{float32(i), 1.5, -0.25},
		}
	}
	ix, err := index.Build(channel, [][]domain.Chunk{coll})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return ix
}

func TestStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ix := buildTestIndex(t, "somechannel", []string{"a_title", "b_title", "c_title"})
	if err := store.Save(ix); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("somechannel")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Vectors(), ix.Vectors()) {
		t.Fatalf("vectors changed across persistence")
	}
	if !reflect.DeepEqual(loaded.Chunks(), ix.Chunks()) {
		t.Fatalf("chunks changed across persistence")
	}
	if loaded.Dimension() != ix.Dimension() || loaded.ChunkCount() != ix.ChunkCount() {
		t.Fatalf("metadata changed: dim=%d count=%d", loaded.Dimension(), loaded.ChunkCount())
	}
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save(buildTestIndex(t, "somechannel", []string{"old_title", "old_description_0"})); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := store.Save(buildTestIndex(t, "somechannel", []string{"new_title"})); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load("somechannel")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ChunkCount() != 1 || loaded.Chunks()[0].ChunkID != "new_title" {
		t.Fatalf("old rows still visible after rebuild: %d chunks", loaded.ChunkCount())
	}
}

func TestStore_ChannelsAreIndependent(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save(buildTestIndex(t, "alpha", []string{"a_title"})); err != nil {
		t.Fatalf("Save alpha failed: %v", err)
	}
	if err := store.Save(buildTestIndex(t, "beta", []string{"b_title", "b_description_0"})); err != nil {
		t.Fatalf("Save beta failed: %v", err)
	}
	alpha, err := store.Load("alpha")
	if err != nil {
		t.Fatalf("Load alpha failed: %v", err)
	}
	if alpha.ChunkCount() != 1 {
		t.Fatalf("alpha picked up beta's rows")
	}
}

func TestStore_LoadMissingChannel(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Load("neverbuilt")
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}
