package reader

import (
	"errors"
	"os"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned for text files that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 encoding")

// TextReader reads .txt files as UTF-8.
type TextReader struct{}

func NewTextReader() *TextReader { return &TextReader{} }

func (r *TextReader) Kind() string { return "TXT" }

func (r *TextReader) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	// Strip a UTF-8 byte order mark.
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	return string(data), nil
}
