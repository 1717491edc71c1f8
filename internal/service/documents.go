package service

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"ytexpert/internal/domain"
)

// LoadChannelDocuments reads every normalized video document under dir. Files
// that are not .json, channel summary files, and files that fail to parse are
// skipped. A missing directory is treated as an empty channel.
func LoadChannelDocuments(dir string) ([]domain.VideoDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var docs []domain.VideoDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") || strings.Contains(name, "summary") {
			continue
		}
		doc, err := loadDocument(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadDocument(path string) (domain.VideoDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.VideoDocument{}, err
	}
	var doc domain.VideoDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.VideoDocument{}, err
	}
	if doc.VideoID == "" {
		doc.VideoID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	doc.Transcript = dropEmptySegments(doc.Transcript)
	if doc.Title == "" && doc.Description == "" && len(doc.Transcript) == 0 {
		return domain.VideoDocument{}, domain.ErrEmptyDocument
	}
	return doc, nil
}

// dropEmptySegments filters out caption lines with no text. Segment order is
// preserved; the sliding window indexes into the filtered sequence.
func dropEmptySegments(segments []domain.TranscriptSegment) []domain.TranscriptSegment {
	out := segments[:0]
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		out = append(out, seg)
	}
	return out
}
