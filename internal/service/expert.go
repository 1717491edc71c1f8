package service

import (
	"fmt"
	"path/filepath"

	"ytexpert/internal/answer"
	"ytexpert/internal/domain"
	"ytexpert/internal/embedding"
	"ytexpert/internal/history"
	"ytexpert/internal/index"
	"ytexpert/internal/summarizer"
)

// BuildStats summarizes one channel index build.
type BuildStats struct {
	Channel   string
	Videos    int
	Chunks    int
	Dimension int
	Digest    string
}

// Options carries the non-pipeline collaborators of an Expert.
type Options struct {
	// DataDir is the root under which processed/{channel}/ documents live.
	DataDir string
	// DigestSentences bounds the channel digest length.
	DigestSentences int
	// History, when set, records every answered query. Best effort: a failed
	// write never fails the query.
	History *history.Store
}

// Expert ties the pipeline together: documents are segmented, embedded and
// indexed per channel, and queries are answered from the published index.
type Expert struct {
	segmenter       domain.Segmenter
	embedder        domain.Embedder
	catalog         *index.Catalog
	digest          *summarizer.FrequencyDigest
	history         *history.Store
	dataDir         string
	digestSentences int
}

func NewExpert(segmenter domain.Segmenter, embedder domain.Embedder, catalog *index.Catalog, opts Options) *Expert {
	return &Expert{
		segmenter:       segmenter,
		embedder:        embedder,
		catalog:         catalog,
		digest:          summarizer.NewFrequencyDigest(),
		history:         opts.History,
		dataDir:         opts.DataDir,
		digestSentences: opts.DigestSentences,
	}
}

// BuildChannel loads the channel's documents, segments and embeds them, and
// publishes a fresh index snapshot. The previous snapshot stays queryable
// until the new one is durable.
func (e *Expert) BuildChannel(channel string) (BuildStats, error) {
	docs, err := LoadChannelDocuments(processedDir(e.dataDir, channel))
	if err != nil {
		return BuildStats{}, fmt.Errorf("load channel %s: %w", channel, err)
	}
	if len(docs) == 0 {
		return BuildStats{}, fmt.Errorf("channel %s has no documents: %w", channel, domain.ErrEmptyDocument)
	}

	collections := make([][]domain.Chunk, 0, len(docs))
	var corpus []string
	for _, doc := range docs {
		chunks, err := e.segmenter.Segment(doc)
		if err != nil {
			return BuildStats{}, fmt.Errorf("segment video %s: %w", doc.VideoID, err)
		}
		for _, ch := range chunks {
			corpus = append(corpus, ch.Text)
		}
		collections = append(collections, chunks)
	}
	if len(corpus) == 0 {
		return BuildStats{}, fmt.Errorf("channel %s produced no chunks: %w", channel, domain.ErrEmptyDocument)
	}

	if err := e.embedder.Prepare(corpus); err != nil {
		return BuildStats{}, fmt.Errorf("prepare embedder %s: %w", e.embedder.Name(), err)
	}
	for _, coll := range collections {
		if err := embedding.Attach(coll, e.embedder); err != nil {
			return BuildStats{}, err
		}
	}

	ix, err := index.Build(channel, collections)
	if err != nil {
		return BuildStats{}, err
	}
	ix.SetDigest(e.digest.Digest(ix.Texts(), e.digestSentences))

	if err := e.catalog.Publish(ix); err != nil {
		return BuildStats{}, fmt.Errorf("publish index for %s: %w", channel, err)
	}

	meta := ix.Metadata()
	return BuildStats{
		Channel:   channel,
		Videos:    len(docs),
		Chunks:    meta.ChunkCount,
		Dimension: meta.Dimension,
		Digest:    meta.Digest,
	}, nil
}

// Ask answers a question from the channel's published index. Returns
// domain.ErrIndexNotFound when the channel has never been built.
func (e *Expert) Ask(channel, query string, topK int) (domain.Answer, error) {
	ix, err := e.catalog.Get(channel)
	if err != nil {
		return domain.Answer{}, err
	}

	// A freshly constructed corpus embedder has no vocabulary yet; fit it to
	// the indexed texts so query vectors land in the same space.
	if e.embedder.Dimension() == 0 {
		if err := e.embedder.Prepare(ix.Texts()); err != nil {
			return domain.Answer{}, fmt.Errorf("prepare embedder %s: %w", e.embedder.Name(), err)
		}
	}

	vec, err := e.embedder.Embed(query)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embed query: %w", err)
	}
	hits, err := ix.Search(vec, topK)
	if err != nil {
		return domain.Answer{}, err
	}

	ans := answer.Assemble(query, hits)
	if e.history != nil {
		_, _ = e.history.Append(channel, query, ans)
	}
	return ans, nil
}

// ChannelDigest returns the stored content overview of a built channel.
func (e *Expert) ChannelDigest(channel string) (string, error) {
	ix, err := e.catalog.Get(channel)
	if err != nil {
		return "", err
	}
	return ix.Metadata().Digest, nil
}

func processedDir(dataDir, channel string) string {
	return filepath.Join(dataDir, "processed", channel)
}
