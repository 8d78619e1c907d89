// Package embedding selects the embedder implementation named in config.
package embedding

import (
	"fmt"
	"time"

	"docrag/internal/config"
	"docrag/internal/domain"
	"docrag/internal/embedding/openai"
	"docrag/internal/embedding/tfidf"
)

// New builds the embedder described by cfg. The sentence-embedding endpoint
// is the default; tfidf is the offline fallback. It is constructed once at
// startup and shared read-only for the life of the process.
func New(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	case "openai", "":
		var oc openai.Config
		if o := cfg.OpenAI; o != nil {
			oc = openai.Config{
				BaseURL:    o.BaseURL,
				APIKeyEnv:  o.APIKeyEnv,
				Model:      o.Model,
				Timeout:    time.Duration(o.TimeoutSecs) * time.Second,
				BatchSize:  o.BatchSize,
				MaxRetries: o.MaxRetries,
			}
		}
		e, err := openai.NewEmbedder(oc)
		if err != nil {
			return nil, fmt.Errorf("openai embedder init: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}
