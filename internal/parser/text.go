package parser

import (
	"io"
	"strings"

	"manualqa/internal/manual"
)

// TextParser handles plain text files. Form feeds separate pages; a
// file without them is a single page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]manual.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return pagesFromSections(strings.Split(string(data), "\f")), nil
}
