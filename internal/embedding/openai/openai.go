package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultBaseURL is a local Ollama server's OpenAI-compatible API.
	DefaultBaseURL = "http://localhost:11434/v1"
	// DefaultModel is the sentence-embedding model the 0.3 threshold is tuned for.
	DefaultModel = "multi-qa-MiniLM-L6-cos-v1"

	hostedBaseURL = "https://api.openai.com/v1"
)

// Embedder calls an OpenAI-compatible /embeddings endpoint. Any server that
// speaks that API (OpenAI, Ollama, text-embeddings-inference) can host the
// sentence-embedding model.
type Embedder struct {
	client    oai.Client
	model     string
	batchSize int
	dimension int
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	BatchSize  int
	MaxRetries int
}

// NewEmbedder creates a new embeddings client using the provided configuration.
// An API key is only required when talking to the hosted OpenAI endpoint.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	key := ""
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	if key == "" && strings.TrimRight(cfg.BaseURL, "/") == hostedBaseURL {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}
	return &Embedder{
		client:    oai.NewClient(opts...),
		model:     cfg.Model,
		batchSize: cfg.BatchSize,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "openai:" + e.model }

// Prepare is not required for remote embedding. Dimension is set on first embed.
func (e *Embedder) Prepare(corpus []string) error { return nil }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns an embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in requests of at most batchSize inputs and
// returns vectors in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := e.embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d-%d: %w", start, end, err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) embed(ctx context.Context, inputs []string) ([][]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, oai.EmbeddingNewParams{
		Input: oai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
		Model: oai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(resp.Data))
	}
	// The API does not promise response order; place each vector by its index.
	out := make([][]float64, len(inputs))
	for _, d := range resp.Data {
		i := int(d.Index)
		if i < 0 || i >= len(out) || out[i] != nil {
			return nil, fmt.Errorf("unexpected embedding index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, errors.New("empty embedding")
		}
		if e.dimension == 0 {
			e.dimension = len(d.Embedding)
		} else if len(d.Embedding) != e.dimension {
			return nil, fmt.Errorf("embedding dimension changed from %d to %d", e.dimension, len(d.Embedding))
		}
		out[i] = d.Embedding
	}
	return out, nil
}
