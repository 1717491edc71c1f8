package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ytexpert/internal/domain"
)

func TestAppendWritesRecord(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	s := NewStore(dir)

	id, err := s.Append("testchannel", "what about compost", domain.Answer{Query: "what about compost", Text: "an answer"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id == "" {
		t.Fatalf("empty record id")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history file, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.ID != id || rec.Channel != "testchannel" || rec.Query != "what about compost" {
		t.Errorf("record mismatch: %+v", rec)
	}
}

func TestAppendSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	for _, q := range []string{"one", "two", "three"} {
		if _, err := s.Append("c", q, domain.Answer{Query: q}); err != nil {
			t.Fatalf("Append %q: %v", q, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 files, got %d", len(entries))
	}
}
