package presenter

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"docrag/internal/domain"
)

const (
	DefaultWrapWidth = 100

	NoStrongMatchText = "No strong matches found."
	EmptyCorpusText   = "No valid text found in documents."
)

// Options controls how a match is rendered.
type Options struct {
	WrapWidth        int
	MinKeywordLength int
	// Mark emphasises keywords; MarkdownMarker when nil.
	Mark Marker
	// Label styles the field labels; identity when nil.
	Label func(string) string
}

func (o Options) withDefaults() Options {
	if o.WrapWidth <= 0 {
		o.WrapWidth = DefaultWrapWidth
	}
	if o.MinKeywordLength <= 0 {
		o.MinKeywordLength = DefaultMinKeywordLength
	}
	if o.Mark == nil {
		o.Mark = MarkdownMarker
	}
	if o.Label == nil {
		o.Label = func(s string) string { return s }
	}
	return o
}

// Render formats one admitted match: source filename, score to four
// decimals, and the highlighted chunk wrapped to the configured width.
func Render(match domain.ScoredChunk, query string, opts Options) string {
	opts = opts.withDefaults()
	highlighted := Highlight(match.Chunk.Text, query, opts.MinKeywordLength, opts.Mark)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", opts.Label("Document:"), match.Chunk.Source)
	fmt.Fprintf(&b, "%s %.4f\n", opts.Label("Similarity Score:"), match.Score)
	fmt.Fprintf(&b, "%s\n", opts.Label("Answer:"))
	b.WriteString(Wrap(highlighted, opts.WrapWidth))
	return b.String()
}

// RenderAll renders each match separated by a blank line, or the no-match notice.
func RenderAll(matches []domain.ScoredChunk, query string, opts Options) string {
	if len(matches) == 0 {
		return NoStrongMatchText
	}
	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = Render(m, query, opts)
	}
	return strings.Join(blocks, "\n\n")
}

// Wrap collapses whitespace and fills text to width columns, breaking words
// longer than a line. Escape sequences do not count toward the width.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	text = strings.Join(strings.Fields(text), " ")
	wrapped := wrap.String(wordwrap.String(text, width), width)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
