// Package tfidf is the offline fallback embedder. It fits a sublinear TF-IDF
// space on the loaded chunks, so similarity is lexical: only shared terms
// score, and the 0.3 threshold rejects more queries than a sentence model would.
package tfidf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

// ErrNotPrepared is returned when embedding before Prepare has fitted a vocabulary.
var ErrNotPrepared = errors.New("tfidf: embed called before prepare")

const stopwordList = `a an the and or but if then else for to of in on at by with as
is are was were be been being it its this that these those from into about over
than so such can will just should not no nor`

// Embedder maps text onto one column per corpus term. After Prepare it is
// read-only and safe to share.
type Embedder struct {
	columns map[string]int
	idf     []float64
	stop    map[string]bool
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	stop := make(map[string]bool)
	for _, w := range strings.Fields(stopwordList) {
		stop[w] = true
	}
	return &Embedder{stop: stop}
}

func (e *Embedder) Name() string { return "tfidf" }

// Prepare fits the vocabulary and smoothed inverse document frequencies,
// treating each chunk as one document.
func (e *Embedder) Prepare(chunks []string) error {
	if len(chunks) == 0 {
		return errors.New("tfidf: no chunks to fit")
	}
	df := make(map[string]int)
	for _, c := range chunks {
		for term := range e.termCounts(c) {
			df[term]++
		}
	}
	if len(df) == 0 {
		return errors.New("tfidf: chunks contain no indexable terms")
	}
	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(chunks))
	e.columns = make(map[string]int, len(vocab))
	e.idf = make([]float64, len(vocab))
	for col, term := range vocab {
		e.columns[term] = col
		e.idf[col] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return nil
}

// Dimension is the vocabulary size; zero before Prepare.
func (e *Embedder) Dimension() int { return len(e.idf) }

// Embed returns the unit-length vector of (1+ln tf)*idf weights. Text sharing
// no term with the corpus yields the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	if e.idf == nil {
		return nil, ErrNotPrepared
	}
	vec := make([]float64, len(e.idf))
	var sq float64
	for term, tf := range e.termCounts(text) {
		col, ok := e.columns[term]
		if !ok {
			continue
		}
		w := (1 + math.Log(float64(tf))) * e.idf[col]
		vec[col] = w
		sq += w * w
	}
	if sq == 0 {
		return vec, nil
	}
	norm := math.Sqrt(sq)
	for col := range vec {
		vec[col] /= norm
	}
	return vec, nil
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// termCounts lower-cases text and counts its non-stopword terms. Terms are
// runs of letters and digits; an apostrophe is kept only inside a word.
func (e *Embedder) termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, f := range strings.FieldsFunc(strings.ToLower(text), separates) {
		term := strings.Trim(f, "'’")
		if term == "" || e.stop[term] {
			continue
		}
		counts[term]++
	}
	return counts
}

func separates(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\'' && r != '’'
}
