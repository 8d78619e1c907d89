package reader

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFReader extracts page text from PDF files.
type PDFReader struct{}

func NewPDFReader() *PDFReader { return &PDFReader{} }

func (r *PDFReader) Kind() string { return "PDF" }

// Read joins the text of every page with a single space. Pages without
// extractable text contribute an empty string.
func (r *PDFReader) Read(path string) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	n := rdr.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := rdr.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, " "), nil
}
