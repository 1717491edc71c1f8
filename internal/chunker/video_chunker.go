package chunker

import (
	"fmt"
	"strconv"
	"strings"

	"ytexpert/internal/domain"
)

// VideoChunker cuts a normalized video document into retrievable chunks:
// one chunk for the title, one per description paragraph, and overlapping
// sliding windows over the transcript segments.
type VideoChunker struct {
	windowSegments  int
	overlapSegments int
}

func NewVideoChunker(windowSegments, overlapSegments int) *VideoChunker {
	if windowSegments <= 0 {
		windowSegments = 5
	}
	if overlapSegments < 0 {
		overlapSegments = 0
	}
	if overlapSegments >= windowSegments {
		overlapSegments = windowSegments - 1
	}
	return &VideoChunker{
		windowSegments:  windowSegments,
		overlapSegments: overlapSegments,
	}
}

// Segment produces the chunk set for one document. Chunk ids are derived
// from the source span, so re-segmenting the same document yields the same
// ids and text. An empty document yields an empty chunk set, not an error.
func (c *VideoChunker) Segment(doc domain.VideoDocument) ([]domain.Chunk, error) {
	chunks := c.metadataChunks(doc)
	transcript, err := c.transcriptChunks(doc)
	if err != nil {
		return nil, err
	}
	chunks = append(chunks, transcript...)
	for _, ch := range chunks {
		if err := ch.Validate(); err != nil {
			return nil, fmt.Errorf("segment %s: %w", doc.VideoID, err)
		}
	}
	return chunks, nil
}

func (c *VideoChunker) metadataChunks(doc domain.VideoDocument) []domain.Chunk {
	var chunks []domain.Chunk
	if title := strings.TrimSpace(doc.Title); title != "" {
		chunks = append(chunks, domain.Chunk{
			ChunkID:      doc.VideoID + "_title",
			VideoID:      doc.VideoID,
			ChannelName:  doc.ChannelName,
			Type:         domain.ChunkTitle,
			Text:         title,
			VideoTitle:   doc.Title,
			VideoURL:     doc.URL,
			TimestampURL: doc.URL,
		})
	}
	// Paragraph boundary is two consecutive newlines. Empty paragraphs are
	// dropped and do not advance the index.
	idx := 0
	for _, paragraph := range strings.Split(doc.Description, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ChunkID:      fmt.Sprintf("%s_description_%d", doc.VideoID, idx),
			VideoID:      doc.VideoID,
			ChannelName:  doc.ChannelName,
			Type:         domain.ChunkDescription,
			Text:         paragraph,
			VideoTitle:   doc.Title,
			VideoURL:     doc.URL,
			TimestampURL: doc.URL,
		})
		idx++
	}
	return chunks
}

func (c *VideoChunker) transcriptChunks(doc domain.VideoDocument) ([]domain.Chunk, error) {
	n := len(doc.Transcript)
	if n == 0 {
		return nil, nil
	}
	stride := c.windowSegments - c.overlapSegments
	var chunks []domain.Chunk
	for s := 0; s < n; s += stride {
		e := s + c.windowSegments
		if e > n {
			e = n
		}
		window := doc.Transcript[s:e]
		texts := make([]string, len(window))
		indices := make([]int, len(window))
		for i, seg := range window {
			texts[i] = seg.Text
			indices[i] = s + i
		}
		first, last := window[0], window[len(window)-1]
		chunks = append(chunks, domain.Chunk{
			ChunkID:            fmt.Sprintf("%s_transcript_%d_%d", doc.VideoID, s, e),
			VideoID:            doc.VideoID,
			ChannelName:        doc.ChannelName,
			Type:               domain.ChunkTranscript,
			Text:               strings.Join(texts, " "),
			VideoTitle:         doc.Title,
			VideoURL:           doc.URL,
			TimestampURL:       doc.TimestampBaseURL + strconv.Itoa(first.TimestampSeconds),
			StartTime:          first.StartTime,
			EndTime:            last.EndTime,
			TimestampSeconds:   first.TimestampSeconds,
			TimestampFormatted: first.TimestampFormatted,
			SegmentIndices:     indices,
		})
	}
	return chunks, nil
}
