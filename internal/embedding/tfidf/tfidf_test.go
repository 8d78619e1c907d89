package tfidf

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestEmbedder_NotPrepared(t *testing.T) {
	e := NewEmbedder()
	if _, err := e.Embed(context.Background(), "hello"); !errors.Is(err, ErrNotPrepared) {
		t.Fatalf("expected ErrNotPrepared, got %v", err)
	}
}

func TestEmbedder_PrepareEmpty(t *testing.T) {
	if err := NewEmbedder().Prepare(nil); err == nil {
		t.Error("expected error for empty corpus")
	}
	if err := NewEmbedder().Prepare([]string{"the and of"}); err == nil {
		t.Error("expected error for stopword-only corpus")
	}
}

func TestEmbedder_NormalisedAndDeterministic(t *testing.T) {
	e := NewEmbedder()
	corpus := []string{"The quick brown fox jumps over the lazy dog", "Go channels and goroutines"}
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	ctx := context.Background()
	v1, err := e.Embed(ctx, "quick fox")
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	v2, _ := e.Embed(ctx, "quick fox")
	if len(v1) != e.Dimension() {
		t.Fatalf("expected dimension %d, got %d", e.Dimension(), len(v1))
	}
	norm := 0.0
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("embedding not deterministic at %d", i)
		}
		norm += v1[i] * v1[i]
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("expected unit norm, got %v", norm)
	}
}

func TestEmbedder_UnknownTermsZeroVector(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare([]string{"alpha beta"}); err != nil {
		t.Fatal(err)
	}
	v, err := e.Embed(context.Background(), "gamma delta")
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range v {
		if x != 0 {
			t.Fatalf("expected zero vector, got %v", v)
		}
	}
}

func TestEmbedder_EmbedBatch(t *testing.T) {
	e := NewEmbedder()
	texts := []string{"alpha beta", "beta gamma", "gamma 2024"}
	if err := e.Prepare(texts); err != nil {
		t.Fatal(err)
	}
	vecs, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	if e.Dimension() != 4 {
		t.Errorf("expected 4 terms (numbers included), got %d", e.Dimension())
	}
}

func TestEmbedder_SublinearTermFrequency(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare([]string{"cat cat cat dog", "don't stop"}); err != nil {
		t.Fatal(err)
	}
	v, err := e.Embed(context.Background(), "cat cat cat dog")
	if err != nil {
		t.Fatal(err)
	}
	// columns are sorted: cat, dog, don't, stop
	if e.Dimension() != 4 {
		t.Fatalf("expected 4 terms with the in-word apostrophe kept, got %d", e.Dimension())
	}
	if ratio := v[0] / v[1]; math.Abs(ratio-(1+math.Log(3))) > 1e-9 {
		t.Errorf("expected cat/dog weight ratio 1+ln3, got %v", ratio)
	}
}
