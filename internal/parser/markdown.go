package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"manualqa/internal/manual"
)

// MarkdownParser handles Markdown files using goldmark. Each top-level
// heading starts a new page; the heading becomes the page's first line.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]manual.Page, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var sections []string
	var current strings.Builder

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			sections = append(sections, current.String())
		}
		current.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok {
			flush()
			current.WriteString(string(heading.Text(src)))
			current.WriteString("\n\n")
			continue
		}
		if t := nodeText(n, src); t != "" {
			if current.Len() > 0 {
				current.WriteString("\n\n")
			}
			current.WriteString(t)
		}
	}
	flush()

	return pagesFromSections(sections), nil
}

// nodeText gets the text content of a goldmark AST node.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(nodeText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
