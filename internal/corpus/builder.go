// Package corpus walks the documents directory and turns every readable file
// into an ordered list of chunks with a parallel list of source filenames.
package corpus

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"docrag/internal/domain"
	"docrag/internal/reader"
)

// ErrEmptyCorpus means no file in the directory produced any text.
var ErrEmptyCorpus = errors.New("no valid text found in documents")

// Warning records a file whose text could not be extracted.
type Warning struct {
	File string
	Kind string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("Failed to read %s %s: %v", w.Kind, w.File, w.Err)
}

// Corpus holds chunk texts and, at the same positions, the filename each came from.
// It is built once and treated as read-only afterwards.
type Corpus struct {
	Chunks   []string
	Sources  []string
	Warnings []Warning
}

// Len returns the number of chunks.
func (c *Corpus) Len() int { return len(c.Chunks) }

// Documents returns the distinct source filenames in first-seen order.
func (c *Corpus) Documents() []string {
	var docs []string
	seen := make(map[string]struct{})
	for _, s := range c.Sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		docs = append(docs, s)
	}
	return docs
}

// DomainChunks pairs each chunk text with its index and source.
func (c *Corpus) DomainChunks() []domain.Chunk {
	out := make([]domain.Chunk, len(c.Chunks))
	for i := range c.Chunks {
		out[i] = domain.Chunk{Index: i, Source: c.Sources[i], Text: c.Chunks[i]}
	}
	return out
}

// ReaderLookup maps a file path to the reader for its format.
type ReaderLookup func(path string) (domain.Reader, bool)

// Builder turns a directory into a Corpus.
type Builder struct {
	chunker domain.Chunker
	lookup  ReaderLookup
	logger  *log.Logger
}

// NewBuilder uses the standard reader registry. A nil logger logs to the standard logger.
func NewBuilder(chunker domain.Chunker, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{chunker: chunker, lookup: reader.ForPath, logger: logger}
}

// WithReaders replaces the extension registry.
func (b *Builder) WithReaders(lookup ReaderLookup) *Builder {
	b.lookup = lookup
	return b
}

// Build reads the direct children of dir in name order. Unsupported
// extensions and subdirectories are skipped silently; files that fail to
// extract become warnings and loading continues. When nothing yields text
// the returned corpus carries the warnings and err is ErrEmptyCorpus.
func (b *Builder) Build(dir string) (*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents dir: %w", err)
	}
	c := &Corpus{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)
		rd, ok := b.lookup(path)
		if !ok {
			continue
		}
		text, err := rd.Read(path)
		if err != nil {
			w := Warning{File: path, Kind: rd.Kind(), Err: err}
			c.Warnings = append(c.Warnings, w)
			b.logger.Printf("[WARN] %s", w)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		for _, chunk := range b.chunker.Chunk(domain.Document{Name: name, Path: path, Content: text}) {
			c.Chunks = append(c.Chunks, chunk)
			c.Sources = append(c.Sources, name)
		}
	}
	if len(c.Chunks) == 0 {
		return c, ErrEmptyCorpus
	}
	b.logger.Printf("[INFO] loaded %d chunks from %d documents in %s", c.Len(), len(c.Documents()), dir)
	return c, nil
}
