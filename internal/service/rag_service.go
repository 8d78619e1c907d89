package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docrag/internal/corpus"
	"docrag/internal/domain"
	"docrag/internal/retriever"
)

// ErrNotReady is returned by Query before Load has succeeded.
var ErrNotReady = errors.New("corpus not loaded")

// State is the lifecycle phase of the service.
type State int

const (
	StateLoading State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "loading"
}

// Answer is the outcome of one query. An answer with no matches is a
// normal "no strong match" result, not an error.
type Answer struct {
	Query    string
	Matches  []domain.ScoredChunk
	Rejected []domain.ScoredChunk
}

// NoStrongMatch reports whether every candidate fell below the threshold.
func (a *Answer) NoStrongMatch() bool { return len(a.Matches) == 0 }

// Options carries the retrieval settings.
type Options struct {
	Dir      string
	TopK     int
	MinScore float64
}

// RAGService loads the corpus once and answers queries against it.
type RAGService struct {
	builder   *corpus.Builder
	embedder  domain.Embedder
	opts      Options
	state     State
	corpus    *corpus.Corpus
	retriever *retriever.Retriever
}

func NewRAGService(builder *corpus.Builder, embedder domain.Embedder, opts Options) *RAGService {
	return &RAGService{builder: builder, embedder: embedder, opts: opts, state: StateLoading}
}

// State returns the current lifecycle phase.
func (s *RAGService) State() State { return s.state }

// Corpus returns the loaded corpus, or nil before Load.
func (s *RAGService) Corpus() *corpus.Corpus { return s.corpus }

// Load builds the corpus, fits the embedder, embeds every chunk in one batch
// and builds the search index. On an empty corpus it returns the corpus
// (with its warnings) and an error wrapping corpus.ErrEmptyCorpus without
// calling the embedder.
func (s *RAGService) Load(ctx context.Context) (*corpus.Corpus, error) {
	c, err := s.builder.Build(s.opts.Dir)
	if err != nil {
		return c, err
	}
	if err := s.embedder.Prepare(c.Chunks); err != nil {
		return c, fmt.Errorf("preparing %s embedder: %w", s.embedder.Name(), err)
	}
	vectors, err := s.embedder.EmbedBatch(ctx, c.Chunks)
	if err != nil {
		return c, fmt.Errorf("embedding corpus: %w", err)
	}
	index, err := retriever.NewIndex(c.DomainChunks(), vectors)
	if err != nil {
		return c, fmt.Errorf("building index: %w", err)
	}
	s.corpus = c
	s.retriever = retriever.New(index, s.opts.TopK, s.opts.MinScore)
	s.state = StateReady
	return c, nil
}

// Query embeds q and returns the admitted and rejected top-k chunks.
func (s *RAGService) Query(ctx context.Context, q string) (*Answer, error) {
	if s.state != StateReady {
		return nil, ErrNotReady
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, errors.New("empty query")
	}
	vec, err := s.embedder.Embed(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	res, err := s.retriever.Retrieve(vec)
	if err != nil {
		return nil, err
	}
	return &Answer{Query: q, Matches: res.Matches, Rejected: res.Rejected}, nil
}
