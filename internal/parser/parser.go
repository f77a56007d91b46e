// Package parser turns uploaded document bytes into per-page plain
// text. The pipeline only depends on the Parser interface; concrete
// formats are collaborators behind it.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"manualqa/internal/manual"
)

// Parser converts raw document bytes into a sequence of text pages.
type Parser interface {
	Parse(r io.Reader, filename string) ([]manual.Page, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// pagesFromSections numbers non-empty text sections sequentially,
// starting at 1.
func pagesFromSections(sections []string) []manual.Page {
	var pages []manual.Page
	for _, s := range sections {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		pages = append(pages, manual.Page{Number: len(pages) + 1, Text: s})
	}
	return pages
}
