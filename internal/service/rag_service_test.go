package service

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docrag/internal/chunker"
	"docrag/internal/corpus"
	"docrag/internal/embedding/tfidf"
)

// stubEmbedder maps texts to fixed vectors: anything mentioning "fox" points
// one way, everything else the other.
type stubEmbedder struct {
	prepared  bool
	batches   int
	embedFn   func(text string) []float64
	prepareFn func([]string) error
}

func (s *stubEmbedder) Name() string { return "stub" }
func (s *stubEmbedder) Prepare(corpus []string) error {
	s.prepared = true
	if s.prepareFn != nil {
		return s.prepareFn(corpus)
	}
	return nil
}
func (s *stubEmbedder) Dimension() int { return 2 }
func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if s.embedFn != nil {
		return s.embedFn(text), nil
	}
	if strings.Contains(strings.ToLower(text), "fox") {
		return []float64{1, 0}, nil
	}
	return []float64{0, 1}, nil
}
func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	s.batches++
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i], _ = s.Embed(ctx, t)
	}
	return out, nil
}

func newService(t *testing.T, dir string, emb *stubEmbedder) *RAGService {
	t.Helper()
	b := corpus.NewBuilder(chunker.NewWordChunker(100), log.New(io.Discard, "", 0))
	return NewRAGService(b, emb, Options{Dir: dir, TopK: 1, MinScore: 0.3})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRAGService_QueryBeforeLoad(t *testing.T) {
	s := newService(t, t.TempDir(), &stubEmbedder{})
	if _, err := s.Query(context.Background(), "fox"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if s.State() != StateLoading {
		t.Errorf("expected loading state, got %s", s.State())
	}
}

func TestRAGService_EndToEndMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.txt", "The quick brown fox jumps over the lazy dog")
	writeFile(t, dir, "other.txt", "Completely unrelated text about gardening")
	emb := &stubEmbedder{}
	s := newService(t, dir, emb)
	ctx := context.Background()

	c, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.State() != StateReady || c.Len() != 2 {
		t.Fatalf("unexpected state %s with %d chunks", s.State(), c.Len())
	}
	if emb.batches != 1 {
		t.Errorf("corpus should be embedded in one batch call, got %d", emb.batches)
	}

	ans, err := s.Query(ctx, "quick fox")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if ans.NoStrongMatch() {
		t.Fatal("expected a strong match")
	}
	m := ans.Matches[0]
	if m.Chunk.Source != "file.txt" || m.Score != 1 {
		t.Errorf("unexpected match %+v", m)
	}
}

func TestRAGService_NoStrongMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.txt", "nothing relevant")
	emb := &stubEmbedder{embedFn: func(text string) []float64 {
		if text == "query" {
			return []float64{1, 0}
		}
		return []float64{0.1, 1}
	}}
	s := newService(t, dir, emb)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	ans, err := s.Query(context.Background(), "query")
	if err != nil {
		t.Fatalf("no strong match must not be an error: %v", err)
	}
	if !ans.NoStrongMatch() || len(ans.Rejected) != 1 {
		t.Errorf("expected one rejected candidate, got %+v", ans)
	}
}

func TestRAGService_EmptyCorpusSkipsEmbedding(t *testing.T) {
	emb := &stubEmbedder{}
	s := newService(t, t.TempDir(), emb)
	_, err := s.Load(context.Background())
	if !errors.Is(err, corpus.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
	if emb.prepared || emb.batches != 0 {
		t.Error("embedder must not run on an empty corpus")
	}
	if s.State() != StateLoading {
		t.Error("service must not become ready")
	}
}

func TestRAGService_PrepareFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.txt", "words")
	emb := &stubEmbedder{prepareFn: func([]string) error { return errors.New("model missing") }}
	s := newService(t, dir, emb)
	if _, err := s.Load(context.Background()); err == nil || !strings.Contains(err.Error(), "model missing") {
		t.Fatalf("expected prepare error, got %v", err)
	}
}

func TestRAGService_WithTFIDF(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "animals.txt", "The quick brown fox jumps over the lazy dog")
	writeFile(t, dir, "code.txt", "Goroutines and channels make concurrency simple")
	b := corpus.NewBuilder(chunker.NewWordChunker(100), log.New(io.Discard, "", 0))
	s := NewRAGService(b, tfidf.NewEmbedder(), Options{Dir: dir, TopK: 1, MinScore: 0.3})
	ctx := context.Background()
	if _, err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}

	ans, err := s.Query(ctx, "quick fox")
	if err != nil {
		t.Fatal(err)
	}
	if ans.NoStrongMatch() || ans.Matches[0].Chunk.Source != "animals.txt" {
		t.Fatalf("expected animals.txt match, got %+v", ans)
	}

	ans, err = s.Query(ctx, "unrelated astronomy")
	if err != nil {
		t.Fatal(err)
	}
	if !ans.NoStrongMatch() {
		t.Errorf("expected no strong match for out-of-vocabulary query, got %+v", ans.Matches)
	}
}
