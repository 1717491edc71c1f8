package answer

import (
	"strings"
	"testing"

	"ytexpert/internal/domain"
)

func hit(videoID, chunkID, text string, score float64, start float64) domain.SearchHit {
	return domain.SearchHit{
		Chunk: domain.Chunk{
			ChunkID:      chunkID,
			VideoID:      videoID,
			VideoTitle:   "Video " + videoID,
			VideoURL:     "https://www.youtube.com/watch?v=" + videoID,
			TimestampURL: "https://www.youtube.com/watch?v=" + videoID + "&t=0",
			Type:         domain.ChunkTranscript,
			Text:         text,
			StartTime:    start,
		},
		Distance: 1.0/score - 1.0,
		Score:    score,
	}
}

func TestAssemble_NoHits(t *testing.T) {
	ans := Assemble("what is this about", nil)
	if ans.HasSources {
		t.Fatalf("empty hit list must have no sources")
	}
	if len(ans.Sources) != 0 {
		t.Fatalf("expected no sources, got %d", len(ans.Sources))
	}
	if ans.Text != noResultsText {
		t.Fatalf("expected the fixed fallback text, got %q", ans.Text)
	}
}

func TestAssemble_VideoRankingByBestScore(t *testing.T) {
	// Video a has three hits topping out at 0.9; video b has two, topping
	// out at 0.95. b ranks first despite fewer hits.
	hits := []domain.SearchHit{
		hit("a", "a1", "a text one", 0.9, 0),
		hit("a", "a2", "a text two", 0.8, 10),
		hit("b", "b1", "b text one", 0.95, 20),
		hit("a", "a3", "a text three", 0.7, 30),
		hit("b", "b2", "b text two", 0.5, 40),
	}
	ans := Assemble("ranking", hits)
	if !ans.HasSources {
		t.Fatalf("expected sources")
	}
	if ans.Sources[0].VideoID != "b" {
		t.Fatalf("first cited video = %s, want b", ans.Sources[0].VideoID)
	}
	// b contributes 2 sources, then a contributes its top 2.
	if len(ans.Sources) != 4 {
		t.Fatalf("expected 4 sources, got %d", len(ans.Sources))
	}
	if ans.Sources[2].VideoID != "a" || ans.Sources[3].VideoID != "a" {
		t.Fatalf("sources 3 and 4 should come from video a")
	}
}

func TestAssemble_Caps(t *testing.T) {
	// Four videos with three hits each: only 3 videos and 2 hits per video
	// may be cited.
	var hits []domain.SearchHit
	for _, v := range []string{"a", "b", "c", "d"} {
		for i, score := range []float64{0.9, 0.8, 0.7} {
			hits = append(hits, hit(v, v+"-chunk", "text", score-float64(i)*0.01, 0))
		}
	}
	ans := Assemble("caps", hits)
	if len(ans.Sources) != maxVideos*maxHitsPerVideo {
		t.Fatalf("expected %d sources, got %d", maxVideos*maxHitsPerVideo, len(ans.Sources))
	}
	perVideo := map[string]int{}
	for _, s := range ans.Sources {
		perVideo[s.VideoID]++
		if perVideo[s.VideoID] > maxHitsPerVideo {
			t.Fatalf("video %s cited more than %d times", s.VideoID, maxHitsPerVideo)
		}
	}
	if len(perVideo) > maxVideos {
		t.Fatalf("%d videos cited, cap is %d", len(perVideo), maxVideos)
	}
}

func TestAssemble_SummaryIndependentOfPerVideoCap(t *testing.T) {
	// One video holds the three best hits: all three texts appear in the
	// summary even though only two become sources.
	hits := []domain.SearchHit{
		hit("a", "a1", "summary line one", 0.99, 0),
		hit("a", "a2", "summary line two", 0.98, 0),
		hit("a", "a3", "summary line three", 0.97, 0),
		hit("b", "b1", "other video text", 0.10, 0),
	}
	ans := Assemble("summary", hits)
	for _, want := range []string{"summary line one", "summary line two", "summary line three"} {
		if !strings.Contains(ans.Text, want) {
			t.Errorf("answer text missing summary %q", want)
		}
	}
	fromA := 0
	for _, s := range ans.Sources {
		if s.VideoID == "a" {
			fromA++
		}
	}
	if fromA != 2 {
		t.Errorf("video a cited %d times, want 2", fromA)
	}
}

func TestAssemble_CitationFormatting(t *testing.T) {
	long := strings.Repeat("x", 200)
	h := hit("a", "a1", long, 0.9, 125)
	ans := Assemble("format", []domain.SearchHit{h})
	src := ans.Sources[0]
	if src.Timestamp != "2:05" {
		t.Errorf("timestamp = %s, want 2:05", src.Timestamp)
	}
	if len([]rune(src.Text)) != citationTextRune+3 {
		t.Errorf("citation text length = %d runes, want %d plus ellipsis", len([]rune(src.Text)), citationTextRune)
	}
	if !strings.HasSuffix(src.Text, "...") {
		t.Errorf("citation text missing ellipsis marker")
	}
	if !strings.Contains(ans.Text, "Link: "+src.TimestampURL) {
		t.Errorf("answer text missing citation link")
	}
	if !strings.Contains(ans.Text, "'format'") {
		t.Errorf("answer text does not echo the query")
	}
	if !strings.HasSuffix(ans.Text, "Would you like more specific information about any of these points?") {
		t.Errorf("answer text missing follow-up prompt")
	}
}
