package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDocumentsDir     = "documents"
	DefaultMaxWords         = 100
	DefaultTopK             = 1
	DefaultMinScore         = 0.3
	DefaultMinKeywordLength = 4
	DefaultWrapWidth        = 100

	// The default embedder is the MiniLM sentence model served through a local
	// OpenAI-compatible endpoint (Ollama); "tfidf" is the offline fallback.
	DefaultEmbedderType     = "openai"
	DefaultEmbeddingBaseURL = "http://localhost:11434/v1"
	DefaultEmbeddingModel   = "multi-qa-MiniLM-L6-cos-v1"
)

// DocumentsConfig points at the folder scanned at startup.
type DocumentsConfig struct {
	Dir string `yaml:"dir"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
	MaxRetries  int    `yaml:"max_retries"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	MaxWords int `yaml:"max_words"`
}

// RetrieverConfig controls how many chunks are surfaced and the admission threshold.
type RetrieverConfig struct {
	TopK     int     `yaml:"top_k"`
	MinScore float64 `yaml:"min_score"`
}

// PresenterConfig controls keyword highlighting and wrapping of answers.
type PresenterConfig struct {
	MinKeywordLength int `yaml:"min_keyword_length"`
	WrapWidth        int `yaml:"wrap_width"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Documents DocumentsConfig `yaml:"documents"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retriever RetrieverConfig `yaml:"retriever"`
	Presenter PresenterConfig `yaml:"presenter"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	// Decode over defaults so an omitted min_score keeps 0.3 while an explicit 0 survives.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/docrag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
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
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
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

// Validate reports settings that cannot be used even after defaults are applied.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "tfidf":
	case "openai":
		if c.Embedder.OpenAI == nil {
			return errors.New("embedder: openai section missing")
		}
	default:
		return fmt.Errorf("embedder: unknown type %q", c.Embedder.Type)
	}
	if c.Chunker.MaxWords <= 0 {
		return fmt.Errorf("chunker: max_words must be positive, got %d", c.Chunker.MaxWords)
	}
	if c.Retriever.TopK <= 0 {
		return fmt.Errorf("retriever: top_k must be positive, got %d", c.Retriever.TopK)
	}
	if c.Retriever.MinScore < -1 || c.Retriever.MinScore > 1 {
		return fmt.Errorf("retriever: min_score must be within [-1, 1], got %v", c.Retriever.MinScore)
	}
	if c.Presenter.WrapWidth <= 0 {
		return fmt.Errorf("presenter: wrap_width must be positive, got %d", c.Presenter.WrapWidth)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docrag", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Documents: DocumentsConfig{Dir: DefaultDocumentsDir},
		Embedder:  EmbedderConfig{Type: DefaultEmbedderType, OpenAI: defaultOpenAIConfig()},
		Chunker:   ChunkerConfig{MaxWords: DefaultMaxWords},
		Retriever: RetrieverConfig{TopK: DefaultTopK, MinScore: DefaultMinScore},
		Presenter: PresenterConfig{MinKeywordLength: DefaultMinKeywordLength, WrapWidth: DefaultWrapWidth},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Documents.Dir == "" {
		cfg.Documents.Dir = DefaultDocumentsDir
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = DefaultEmbedderType
	}
	if cfg.Chunker.MaxWords == 0 {
		cfg.Chunker.MaxWords = DefaultMaxWords
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = DefaultTopK
	}
	if cfg.Presenter.MinKeywordLength == 0 {
		cfg.Presenter.MinKeywordLength = DefaultMinKeywordLength
	}
	if cfg.Presenter.WrapWidth == 0 {
		cfg.Presenter.WrapWidth = DefaultWrapWidth
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = defaultOpenAIConfig()
		}
		o, d := cfg.Embedder.OpenAI, defaultOpenAIConfig()
		if o.BaseURL == "" {
			o.BaseURL = d.BaseURL
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = d.APIKeyEnv
		}
		if o.Model == "" {
			o.Model = d.Model
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = d.TimeoutSecs
		}
		if o.BatchSize == 0 {
			o.BatchSize = d.BatchSize
		}
		if o.MaxRetries == 0 {
			o.MaxRetries = d.MaxRetries
		}
	}
}

func defaultOpenAIConfig() *OpenAIEmbedderConfig {
	return &OpenAIEmbedderConfig{
		BaseURL:     DefaultEmbeddingBaseURL,
		APIKeyEnv:   "OPENAI_API_KEY",
		Model:       DefaultEmbeddingModel,
		TimeoutSecs: 30,
		BatchSize:   32,
		MaxRetries:  2,
	}
}
