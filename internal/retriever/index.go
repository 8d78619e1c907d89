// Package retriever scores corpus chunks against a query vector by cosine
// similarity and applies the admission threshold.
package retriever

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"docrag/internal/domain"
)

// Index is a flat in-memory list of chunk vectors searched by brute force.
// It is built once and never mutated, so concurrent reads need no locking.
type Index struct {
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float64
	mags      []float64
}

// NewIndex validates that chunks and vectors line up and share one dimension.
func NewIndex(chunks []domain.Chunk, vectors [][]float64) (*Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, errors.New("empty index")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("invalid dimension")
	}
	mags := make([]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector dimension mismatch: %d vs %d", len(v), dim)
		}
		mags[i] = magnitude(v)
	}
	return &Index{
		dimension: dim,
		chunks:    append([]domain.Chunk(nil), chunks...),
		vectors:   append([][]float64(nil), vectors...),
		mags:      mags,
	}, nil
}

// Scores returns the cosine similarity of query against every chunk, in chunk order.
func (x *Index) Scores(query []float64) ([]float64, error) {
	if len(query) != x.dimension {
		return nil, fmt.Errorf("query dimension %d != index dimension %d", len(query), x.dimension)
	}
	qm := magnitude(query)
	scores := make([]float64, len(x.vectors))
	for i, v := range x.vectors {
		scores[i] = cosine(query, v, qm, x.mags[i])
	}
	return scores, nil
}

// Search returns the topK chunks by descending score. Equal scores keep
// corpus order, so the earliest chunk wins a tie.
func (x *Index) Search(query []float64, topK int) ([]domain.ScoredChunk, error) {
	scores, err := x.Scores(query)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 1
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.ScoredChunk, 0, topK)
	for _, j := range idxs[:topK] {
		results = append(results, domain.ScoredChunk{Chunk: x.chunks[j], Score: scores[j]})
	}
	return results, nil
}

// cosine divides the dot product by precomputed magnitudes. A zero-magnitude
// vector scores 0.
func cosine(a, b []float64, magA, magB float64) float64 {
	if magA == 0 || magB == 0 {
		return 0
	}
	s := dot(a, b) / (magA * magB)
	if math.IsNaN(s) {
		return 0
	}
	return s
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func magnitude(v []float64) float64 { return math.Sqrt(dot(v, v)) }
