// Package presenter highlights query keywords in a matched chunk and renders
// the result block shown to the user.
package presenter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinKeywordLength keeps only query words longer than three characters.
const DefaultMinKeywordLength = 4

// Marker wraps a matched span for emphasis. It receives the span with its
// original casing.
type Marker func(match string) string

// MarkdownMarker emphasises a span as **bold**.
func MarkdownMarker(s string) string { return "**" + s + "**" }

// Keywords returns the lower-cased, de-duplicated query words of at least
// minLen characters, in query order.
func Keywords(query string, minLen int) []string {
	if minLen <= 0 {
		minLen = DefaultMinKeywordLength
	}
	var out []string
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(query) {
		if utf8.RuneCountInString(w) < minLen {
			continue
		}
		w = strings.ToLower(w)
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Highlight marks every case-insensitive occurrence of each keyword in text.
// Keywords are applied one after another, so when keywords overlap the later
// substitution operates on the output of the earlier one.
func Highlight(text, query string, minLen int, mark Marker) string {
	if mark == nil {
		mark = MarkdownMarker
	}
	for _, kw := range Keywords(query, minLen) {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(kw))
		text = re.ReplaceAllStringFunc(text, mark)
	}
	return text
}
