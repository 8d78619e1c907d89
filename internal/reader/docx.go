package reader

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	compatibilityNS  = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// DOCXReader extracts body paragraph text from Word documents.
type DOCXReader struct{}

func NewDOCXReader() *DOCXReader { return &DOCXReader{} }

func (r *DOCXReader) Kind() string { return "DOCX" }

// Read returns the body paragraphs joined by newlines. Tables, text boxes
// and compatibility fallbacks are not included.
func (r *DOCXReader) Read(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		paragraphs, err := parseParagraphs(rc)
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		return strings.Join(paragraphs, "\n"), nil
	}
	return "", errors.New("word/document.xml not found")
}

// skipped reports elements whose whole subtree contributes no paragraph text.
func skipped(name xml.Name) bool {
	switch name.Space {
	case wordprocessingNS:
		switch name.Local {
		case "tbl", "txbxContent", "pPr", "rPr", "delText", "instrText":
			return true
		}
	case compatibilityNS:
		return name.Local == "Fallback"
	}
	return false
}

func parseParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		current    strings.Builder
		paraDepth  int
		runDepth   int
		skipDepth  int
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 || skipped(t.Name) {
				skipDepth++
				continue
			}
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				if paraDepth == 0 {
					current.Reset()
				}
				paraDepth++
			case "r":
				runDepth++
			case "t":
				inText = paraDepth > 0 && runDepth > 0
			case "tab":
				if runDepth > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if runDepth > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				paraDepth--
				if paraDepth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case "r":
				runDepth--
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
