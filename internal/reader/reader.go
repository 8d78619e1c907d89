// Package reader extracts plain text from the document formats the corpus accepts.
package reader

import (
	"path/filepath"
	"strings"

	"docrag/internal/domain"
)

var byExtension = map[string]domain.Reader{
	".pdf":  NewPDFReader(),
	".txt":  NewTextReader(),
	".docx": NewDOCXReader(),
}

// ForExtension returns the reader registered for ext (".pdf", ".txt", ".docx").
// Matching is case-insensitive. Unknown extensions report false.
func ForExtension(ext string) (domain.Reader, bool) {
	r, ok := byExtension[strings.ToLower(ext)]
	return r, ok
}

// ForPath is ForExtension applied to the extension of path.
func ForPath(path string) (domain.Reader, bool) {
	return ForExtension(filepath.Ext(path))
}
