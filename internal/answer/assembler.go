package answer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ytexpert/internal/domain"
)

// Selection and display conventions for assembled answers. The citation
// excerpt length is a formatting concern only; stored chunks are never
// truncated.
const (
	maxVideos        = 3
	maxHitsPerVideo  = 2
	maxSummaryHits   = 3
	citationTextRune = 150
)

const noResultsText = "I couldn't find any relevant information about that topic in the channel's content."

// videoGroup collects the hits of one video, in arrival order, for ranking.
type videoGroup struct {
	videoID string
	title   string
	url     string
	hits    []domain.SearchHit
}

func (g *videoGroup) bestScore() float64 {
	best := 0.0
	for _, h := range g.hits {
		if h.Score > best {
			best = h.Score
		}
	}
	return best
}

// Assemble turns ranked search hits into a cited answer. Hits are grouped by
// video; videos are ordered by their best hit score (first-seen order on
// ties) and capped at three, with at most two cited hits each. The summary
// section quotes the three highest-scoring hits overall, independent of the
// per-video cap. An empty hit list yields the fixed no-results answer.
func Assemble(query string, hits []domain.SearchHit) domain.Answer {
	if len(hits) == 0 {
		return domain.Answer{
			Query:       query,
			Text:        noResultsText,
			Sources:     []domain.Source{},
			HasSources:  false,
			GeneratedAt: time.Now().UTC(),
		}
	}

	groups := groupByVideo(hits)
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].bestScore() > groups[b].bestScore()
	})

	var parts []string
	parts = append(parts,
		fmt.Sprintf("Based on the content from the YouTube channel, here's what I found about '%s':", query),
		"")
	for _, h := range topByScore(hits, maxSummaryHits) {
		parts = append(parts, h.Chunk.Text)
	}
	parts = append(parts, "", "Here are the specific sources:")

	var sources []domain.Source
	selected := groups
	if len(selected) > maxVideos {
		selected = selected[:maxVideos]
	}
	for _, g := range selected {
		for _, h := range topByScore(g.hits, maxHitsPerVideo) {
			src := domain.Source{
				VideoID:      g.videoID,
				VideoTitle:   g.title,
				VideoURL:     g.url,
				Timestamp:    formatTimestamp(h.Chunk.StartTime),
				TimestampURL: timestampURL(h.Chunk, g.url),
				Text:         truncate(h.Chunk.Text, citationTextRune),
			}
			sources = append(sources, src)
			parts = append(parts,
				fmt.Sprintf("- %s at %s: %s", src.VideoTitle, src.Timestamp, src.Text),
				fmt.Sprintf("  Link: %s", src.TimestampURL),
				"")
		}
	}
	parts = append(parts, "Would you like more specific information about any of these points?")

	return domain.Answer{
		Query:       query,
		Text:        strings.Join(parts, "\n"),
		Sources:     sources,
		HasSources:  len(sources) > 0,
		GeneratedAt: time.Now().UTC(),
	}
}

func groupByVideo(hits []domain.SearchHit) []*videoGroup {
	byID := make(map[string]*videoGroup)
	var order []*videoGroup
	for _, h := range hits {
		g, ok := byID[h.Chunk.VideoID]
		if !ok {
			g = &videoGroup{
				videoID: h.Chunk.VideoID,
				title:   h.Chunk.VideoTitle,
				url:     h.Chunk.VideoURL,
			}
			byID[h.Chunk.VideoID] = g
			order = append(order, g)
		}
		g.hits = append(g.hits, h)
	}
	return order
}

// topByScore returns up to n hits ordered by descending score without
// disturbing the input; ties keep arrival order.
func topByScore(hits []domain.SearchHit, n int) []domain.SearchHit {
	sorted := make([]domain.SearchHit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Score > sorted[b].Score })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func timestampURL(ch domain.Chunk, videoURL string) string {
	if ch.TimestampURL != "" {
		return ch.TimestampURL
	}
	return videoURL
}

func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}
