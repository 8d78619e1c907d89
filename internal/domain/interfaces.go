package domain

import "context"

// Document is a single file from the documents directory after text extraction.
type Document struct {
	Name    string
	Path    string
	Content string
}

// Chunk is a contiguous run of words taken from one document.
// Its identity is its position in the corpus chunk list.
type Chunk struct {
	Index  int
	Source string
	Text   string
}

// ScoredChunk is a chunk together with its cosine similarity to a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Reader extracts plain text from a file of one format.
type Reader interface {
	Kind() string
	Read(path string) (string, error)
}

// Chunker splits a document into chunk texts in source order.
type Chunker interface {
	Chunk(document Document) []string
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
// Vectors are only comparable when produced by the same Embedder.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}
