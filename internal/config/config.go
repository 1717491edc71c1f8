package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type" env:"YTEXPERT_EMBEDDER"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures the transcript sliding window.
type ChunkerConfig struct {
	WindowSegments  int `yaml:"window_segments"`
	OverlapSegments int `yaml:"overlap_segments"`
}

// IndexStoreConfig selects where built indexes are persisted.
type IndexStoreConfig struct {
	Type string `yaml:"type" env:"YTEXPERT_INDEX_STORE"`
	Path string `yaml:"path" env:"YTEXPERT_INDEX_PATH"`
}

// AppConfig is the root application configuration structure. Values from the
// YAML file can be overridden through the environment.
type AppConfig struct {
	DataDir         string           `yaml:"data_dir" env:"YTEXPERT_DATA_DIR"`
	Channel         string           `yaml:"channel" env:"YTEXPERT_CHANNEL"`
	TopK            int              `yaml:"top_k" env:"YTEXPERT_TOP_K"`
	DigestSentences int              `yaml:"digest_sentences"`
	Embedder        EmbedderConfig   `yaml:"embedder"`
	Chunker         ChunkerConfig    `yaml:"chunker"`
	IndexStore      IndexStoreConfig `yaml:"index_store"`
}

// ProcessedDir returns the directory of a channel's normalized documents.
func (c *AppConfig) ProcessedDir(channel string) string {
	return filepath.Join(c.DataDir, "processed", channel)
}

// HistoryDir returns the query history directory.
func (c *AppConfig) HistoryDir() string {
	return filepath.Join(c.DataDir, "history")
}

// IndexPath returns the index persistence location for the configured
// backend: a directory of snapshot files, or a SQLite database file.
func (c *AppConfig) IndexPath() string {
	if c.IndexStore.Path != "" {
		return c.IndexStore.Path
	}
	if c.IndexStore.Type == "sqlite" {
		return filepath.Join(c.DataDir, "index", "snapshots.db")
	}
	return filepath.Join(c.DataDir, "index")
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults. Environment overrides are applied either way.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, applyEnv(cfg)
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, applyEnv(&cfg)
}

// LoadDefault tries ./ytexpert.yaml first, then
// ~/.config/ytexpert/config.yaml. If neither exists, it writes defaults to
// the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "ytexpert.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, applyEnv(cfg)
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ytexpert", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		DataDir:         "data",
		TopK:            10,
		DigestSentences: 5,
		Embedder:        EmbedderConfig{Type: "tfidf"},
		Chunker:         ChunkerConfig{WindowSegments: 5, OverlapSegments: 1},
		IndexStore:      IndexStoreConfig{Type: "file"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.TopK == 0 {
		cfg.TopK = 10
	}
	if cfg.DigestSentences == 0 {
		cfg.DigestSentences = 5
	}
	if cfg.Chunker.WindowSegments == 0 {
		cfg.Chunker.WindowSegments = 5
	}
	if cfg.Chunker.OverlapSegments == 0 {
		cfg.Chunker.OverlapSegments = 1
	}
	if cfg.IndexStore.Type == "" {
		cfg.IndexStore.Type = "file"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
}

func applyEnv(cfg *AppConfig) error {
	return env.Parse(cfg)
}
