package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ytexpert/internal/chunker"
	"ytexpert/internal/config"
	"ytexpert/internal/domain"
	"ytexpert/internal/embedding/openai"
	"ytexpert/internal/embedding/tfidf"
	"ytexpert/internal/history"
	"ytexpert/internal/index"
	"ytexpert/internal/index/filestore"
	"ytexpert/internal/index/sqlitestore"
	"ytexpert/internal/service"
	"ytexpert/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath string
		channel string
		query   string
		topK    int
		build   bool
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./ytexpert.yaml or ~/.config/ytexpert/config.yaml)")
	flag.StringVar(&channel, "channel", "", "Channel name (overrides the configured channel)")
	flag.StringVar(&query, "query", "", "Ask one question, print the answer and exit")
	flag.IntVar(&topK, "topk", 0, "Number of chunks to retrieve per question (overrides config)")
	flag.BoolVar(&build, "build", false, "Build the channel index from processed documents and exit")
	flag.Parse()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if channel == "" {
		channel = cfg.Channel
	}
	if channel == "" {
		fmt.Println("Usage: ytexpert -channel <name> [-build] [-query \"...\"]")
		os.Exit(1)
	}
	if topK == 0 {
		topK = cfg.TopK
	}

	emb, err := newEmbedder(cfg)
	if err != nil {
		log.Fatalf("embedder: %v", err)
	}
	store, err := newIndexStore(cfg)
	if err != nil {
		log.Fatalf("index store: %v", err)
	}

	expert := service.NewExpert(
		chunker.NewVideoChunker(cfg.Chunker.WindowSegments, cfg.Chunker.OverlapSegments),
		emb,
		index.NewCatalog(store),
		service.Options{
			DataDir:         cfg.DataDir,
			DigestSentences: cfg.DigestSentences,
			History:         history.NewStore(cfg.HistoryDir()),
		},
	)

	if build {
		stats, err := expert.BuildChannel(channel)
		if err != nil {
			log.Fatalf("build failed: %v", err)
		}
		fmt.Printf("Indexed channel %q: %d videos, %d chunks, dimension %d.\n",
			stats.Channel, stats.Videos, stats.Chunks, stats.Dimension)
		if stats.Digest != "" {
			fmt.Println("\n" + stats.Digest)
		}
		return
	}

	if query != "" {
		ans, err := expert.Ask(channel, query, topK)
		if err != nil {
			if errors.Is(err, domain.ErrIndexNotFound) {
				log.Fatalf("no index built for channel %q; run with -build first", channel)
			}
			log.Fatalf("query failed: %v", err)
		}
		fmt.Println(ans.Text)
		return
	}

	digest, err := expert.ChannelDigest(channel)
	if err != nil && !errors.Is(err, domain.ErrIndexNotFound) {
		log.Fatalf("load channel: %v", err)
	}
	m := tui.New(expert, channel, digest, topK)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func newEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil
	case "openai":
		oc := openai.Config{}
		if o := cfg.Embedder.OpenAI; o != nil {
			oc = openai.Config{
				BaseURL:   o.BaseURL,
				APIKeyEnv: o.APIKeyEnv,
				Model:     o.Model,
				Timeout:   time.Duration(o.TimeoutSecs) * time.Second,
			}
		}
		return openai.NewClient(oc)
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func newIndexStore(cfg *config.AppConfig) (index.Store, error) {
	switch cfg.IndexStore.Type {
	case "file", "":
		return filestore.New(cfg.IndexPath()), nil
	case "sqlite":
		return sqlitestore.Open(cfg.IndexPath())
	default:
		return nil, fmt.Errorf("unknown index store: %s", cfg.IndexStore.Type)
	}
}
