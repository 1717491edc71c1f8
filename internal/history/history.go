package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"ytexpert/internal/domain"
)

// Record is one asked question with its assembled answer.
type Record struct {
	ID      string        `json:"id"`
	Channel string        `json:"channel"`
	Query   string        `json:"query"`
	Answer  domain.Answer `json:"answer"`
	AskedAt time.Time     `json:"asked_at"`
}

// Store appends question/answer records as JSON files under a directory,
// one file per query.
type Store struct {
	dir string
}

func NewStore(dir string) *Store { return &Store{dir: dir} }

// Append writes a record for the query and returns its id.
func (s *Store) Append(channel, query string, ans domain.Answer) (string, error) {
	rec := Record{
		ID:      uuid.NewString(),
		Channel: channel,
		Query:   query,
		Answer:  ans,
		AskedAt: time.Now().UTC(),
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	name := "query_" + rec.AskedAt.Format("20060102_150405") + "_" + rec.ID + ".json"
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return rec.ID, nil
}
