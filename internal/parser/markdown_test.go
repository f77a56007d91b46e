package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsStartPages(t *testing.T) {
	src := `# Installation

Unpack the unit and verify the contents.

# Operation

Turn the dial to the desired setting.

Press start.
`
	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader(src), "manual.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if !strings.HasPrefix(pages[0].Text, "Installation") {
		t.Errorf("page 1 should start with its heading, got %q", pages[0].Text)
	}
	if !strings.Contains(pages[0].Text, "Unpack the unit") {
		t.Errorf("page 1 missing body text: %q", pages[0].Text)
	}
	if !strings.Contains(pages[1].Text, "Press start.") {
		t.Errorf("page 2 missing later paragraph: %q", pages[1].Text)
	}
	if strings.Contains(pages[0].Text, "Turn the dial") {
		t.Error("page 1 leaked content from page 2")
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	src := "Just a plain paragraph.\n\nAnd another one."
	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader(src), "notes.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if !strings.Contains(pages[0].Text, "Just a plain paragraph.") {
		t.Errorf("unexpected page text %q", pages[0].Text)
	}
}

func TestMarkdownParser_Empty(t *testing.T) {
	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected no pages, got %d", len(pages))
	}
}

func TestHTMLParser_HeadingsStartPages(t *testing.T) {
	src := `<html><head><title>Manual</title><style>p{}</style></head><body>
<nav>skip me</nav>
<h1>Safety</h1>
<p>Always disconnect power.</p>
<h1>Assembly</h1>
<p>Attach bracket A to rail B.</p>
</body></html>`
	p := &HTMLParser{}
	pages, err := p.Parse(strings.NewReader(src), "manual.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if !strings.Contains(pages[0].Text, "Always disconnect power.") {
		t.Errorf("page 1: %q", pages[0].Text)
	}
	if !strings.Contains(pages[1].Text, "Attach bracket A to rail B.") {
		t.Errorf("page 2: %q", pages[1].Text)
	}
	for _, page := range pages {
		if strings.Contains(page.Text, "skip me") {
			t.Error("nav content leaked into pages")
		}
	}
}
