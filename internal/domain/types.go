package domain

import (
	"fmt"
	"time"
)

// ChunkType identifies which part of a video a chunk was cut from.
type ChunkType string

const (
	ChunkTitle       ChunkType = "title"
	ChunkDescription ChunkType = "description"
	ChunkTranscript  ChunkType = "transcript"
)

// TranscriptSegment is one timed caption line of a normalized video document.
type TranscriptSegment struct {
	Index              int     `json:"index"`
	Text               string  `json:"text"`
	StartTime          float64 `json:"start_time"`
	EndTime            float64 `json:"end_time"`
	Duration           float64 `json:"duration"`
	TimestampSeconds   int     `json:"timestamp_seconds"`
	TimestampFormatted string  `json:"timestamp_formatted"`
}

// VideoDocument is a normalized video record as produced by the ingestion
// stage: metadata plus an ordered transcript.
type VideoDocument struct {
	VideoID          string              `json:"video_id"`
	ChannelName      string              `json:"channel_name"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	URL              string              `json:"url"`
	TimestampBaseURL string              `json:"timestamp_base_url"`
	Transcript       []TranscriptSegment `json:"transcript"`
}

// Chunk is a single retrievable text span with identity, type and, once
// attached, an embedding vector.
type Chunk struct {
	ChunkID            string    `json:"chunk_id"`
	VideoID            string    `json:"video_id"`
	ChannelName        string    `json:"channel_name"`
	Type               ChunkType `json:"chunk_type"`
	Text               string    `json:"text"`
	VideoTitle         string    `json:"video_title"`
	VideoURL           string    `json:"video_url"`
	TimestampURL       string    `json:"timestamp_url"`
	StartTime          float64   `json:"start_time"`
	EndTime            float64   `json:"end_time"`
	TimestampSeconds   int       `json:"timestamp_seconds,omitempty"`
	TimestampFormatted string    `json:"timestamp_formatted,omitempty"`
	SegmentIndices     []int     `json:"segment_indices,omitempty"`
	Embedding          []float32 `json:"embedding,omitempty"`
}

// WithoutEmbedding returns a copy of the chunk with the vector stripped.
// The index keeps vectors in its own sequence; metadata never carries them.
func (c Chunk) WithoutEmbedding() Chunk {
	c.Embedding = nil
	return c
}

// Validate checks the per-variant field requirements. Title and description
// chunks carry no timing; transcript chunks must reference their segments.
func (c Chunk) Validate() error {
	if c.ChunkID == "" {
		return fmt.Errorf("chunk without id")
	}
	if c.Text == "" {
		return fmt.Errorf("chunk %s: empty text", c.ChunkID)
	}
	switch c.Type {
	case ChunkTitle, ChunkDescription:
		if c.StartTime != 0 || c.EndTime != 0 {
			return fmt.Errorf("chunk %s: %s chunk with timing", c.ChunkID, c.Type)
		}
		if len(c.SegmentIndices) != 0 {
			return fmt.Errorf("chunk %s: %s chunk with segment indices", c.ChunkID, c.Type)
		}
	case ChunkTranscript:
		if len(c.SegmentIndices) == 0 {
			return fmt.Errorf("chunk %s: transcript chunk without segment indices", c.ChunkID)
		}
	default:
		return fmt.Errorf("chunk %s: unknown chunk type %q", c.ChunkID, c.Type)
	}
	return nil
}

// SearchHit is a chunk matched by a search, with its raw squared-L2 distance
// and the derived score 1/(1+distance).
type SearchHit struct {
	Chunk    Chunk   `json:"chunk"`
	Distance float64 `json:"distance"`
	Score    float64 `json:"score"`
}

// Source is one citation of an assembled answer.
type Source struct {
	VideoID      string `json:"video_id"`
	VideoTitle   string `json:"video_title"`
	VideoURL     string `json:"video_url"`
	Timestamp    string `json:"timestamp"`
	TimestampURL string `json:"timestamp_url"`
	Text         string `json:"text"`
}

// Answer is the assembled, cited response to a query.
type Answer struct {
	Query       string    `json:"query"`
	Text        string    `json:"answer"`
	Sources     []Source  `json:"sources"`
	HasSources  bool      `json:"has_sources"`
	GeneratedAt time.Time `json:"generated_at"`
}
