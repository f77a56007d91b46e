package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"manualqa/internal/docstore"
	"manualqa/internal/index"
	"manualqa/internal/manual"
)

type answererFunc func(ctx context.Context, prompt string) (string, error)

func (f answererFunc) AnswerQuestion(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func loadedStore(chunks ...string) *docstore.Store {
	ix := index.New()
	for i, c := range chunks {
		ix.Add(manual.IndexedChunk{Text: c, Page: i + 1})
	}
	store := docstore.New()
	store.Replace(&docstore.Document{
		ID:          "doc-1",
		FileName:    "manual.pdf",
		PageCount:   len(chunks),
		TotalChunks: len(chunks),
		Index:       ix,
	})
	return store
}

func TestAnswer_NoDocumentLoaded(t *testing.T) {
	calls := 0
	client := answererFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", nil
	})
	q := NewQuerier(docstore.New(), client, 5, testLogger())

	_, err := q.Answer(context.Background(), "how do I install it?")
	if !errors.Is(err, docstore.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
	if calls != 0 {
		t.Error("no remote call may be attempted without a document")
	}
}

func TestAnswer_EmptyIndexReportsNoDocument(t *testing.T) {
	// A document whose only chunk is below the index noise floor loads
	// fine but leaves the index empty; querying it must fail the same
	// way as querying before any upload.
	store := docstore.New()
	ing := newIngestor(store, nil, ChunkConfig{MaxSize: 2000, Overlap: 0, MinChars: 50})

	doc, err := ing.Load([]manual.Page{{Number: 1, Text: "Prime the pump first."}}, "m.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.TotalChunks != 0 {
		t.Fatalf("expected no indexed chunks, got %d", doc.TotalChunks)
	}

	calls := 0
	client := answererFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", nil
	})
	q := NewQuerier(store, client, 5, testLogger())

	_, err = q.Answer(context.Background(), "pump")
	if !errors.Is(err, docstore.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
	if calls != 0 {
		t.Error("an unsearchable document must not trigger a remote call")
	}
}

func TestAnswer_NoLexicalMatchSkipsModel(t *testing.T) {
	calls := 0
	client := answererFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "should not be called", nil
	})
	store := loadedStore("The compressor uses synthetic oil only.")
	q := NewQuerier(store, client, 5, testLogger())

	resp, err := q.Answer(context.Background(), "warranty registration")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Error("zero hits must not trigger a remote call")
	}
	if resp.Answer != NoMatchAnswer {
		t.Errorf("expected fixed no-match answer, got %q", resp.Answer)
	}
	if len(resp.RelevantSections) != 0 {
		t.Errorf("expected no sections, got %d", len(resp.RelevantSections))
	}
	if resp.Metadata.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", resp.Metadata.Confidence)
	}
}

func TestAnswer_ReturnsGroundedAnswer(t *testing.T) {
	var seenPrompt string
	client := answererFunc(func(ctx context.Context, prompt string) (string, error) {
		seenPrompt = prompt
		return "Installation takes two steps; see page 1.", nil
	})
	store := loadedStore(
		"Installation requires two steps",
		"The warranty excludes consumables",
	)
	q := NewQuerier(store, client, 5, testLogger())

	resp, err := q.Answer(context.Background(), "installation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.RelevantSections) != 1 {
		t.Fatalf("expected only the matching chunk, got %d", len(resp.RelevantSections))
	}
	hit := resp.RelevantSections[0]
	if hit.Page != 1 || hit.Score <= 0 {
		t.Errorf("unexpected hit %+v", hit)
	}
	if resp.Answer != "Installation takes two steps; see page 1." {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if resp.Metadata.Confidence <= 0 {
		t.Errorf("expected positive confidence, got %v", resp.Metadata.Confidence)
	}
	// The grounding prompt must carry the page number, the source text,
	// and the question.
	for _, want := range []string{"[Page 1]", "Installation requires two steps", "installation"} {
		if !strings.Contains(seenPrompt, want) {
			t.Errorf("grounding prompt missing %q", want)
		}
	}
}

func TestAnswer_ModelFailureLeavesStoreUsable(t *testing.T) {
	failing := answererFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("upstream exploded")
	})
	store := loadedStore("Bleed the brake line at the caliper nipple.")
	q := NewQuerier(store, failing, 5, testLogger())

	if _, err := q.Answer(context.Background(), "brake bleed"); err == nil {
		t.Fatal("expected error")
	}

	// The document must be untouched and the query retryable.
	working := answererFunc(func(ctx context.Context, prompt string) (string, error) {
		return "open the nipple a quarter turn", nil
	})
	q = NewQuerier(store, working, 5, testLogger())
	resp, err := q.Answer(context.Background(), "brake bleed")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(resp.RelevantSections) != 1 {
		t.Errorf("expected 1 section on retry, got %d", len(resp.RelevantSections))
	}
}

func TestAnswer_MetadataDescribesDocument(t *testing.T) {
	client := answererFunc(func(ctx context.Context, prompt string) (string, error) {
		return "answer", nil
	})
	store := loadedStore("fuse ratings are on page one", "spare fuse locations listed")
	q := NewQuerier(store, client, 5, testLogger())

	resp, err := q.Answer(context.Background(), "fuse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	meta := resp.Metadata
	if meta.DocumentID != "doc-1" || meta.FileName != "manual.pdf" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.ChunksSearched != 2 {
		t.Errorf("expected 2 chunks searched, got %d", meta.ChunksSearched)
	}
}
