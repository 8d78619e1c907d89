package chunker

import (
	"strings"

	"docrag/internal/domain"
)

// DefaultMaxWords is the chunk width used when none is configured.
const DefaultMaxWords = 100

// WordChunker splits text into consecutive, non-overlapping windows of maxWords words.
type WordChunker struct {
	maxWords int
}

func NewWordChunker(maxWords int) *WordChunker {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &WordChunker{maxWords: maxWords}
}

func (c *WordChunker) Chunk(document domain.Document) []string {
	return SplitIntoChunks(document.Content, c.maxWords)
}

// SplitIntoChunks tokenizes text on whitespace and joins every maxWords words
// with single spaces. The last chunk may be shorter. Blank text yields nil.
func SplitIntoChunks(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for i := 0; i < len(words); i += maxWords {
		end := i + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
