// Package service composes the ingestion and query paths: chunker →
// batcher → merger for whole-document summaries, chunker → relevance
// index for the searchable store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"manualqa/internal/chunker"
	"manualqa/internal/docstore"
	"manualqa/internal/index"
	"manualqa/internal/manual"
	"manualqa/internal/pipeline"
)

// ErrEmptyDocument means page extraction produced no usable text.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// ChunkConfig holds the splitter policy for both ingestion paths.
type ChunkConfig struct {
	MaxSize  int // Maximum chunk length in characters
	Overlap  int // Characters of shared context between neighbors
	MinChars int // Minimum length an indexed chunk must have
}

func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxSize:  2000,
		Overlap:  200,
		MinChars: chunker.MinIndexable,
	}
}

// Ingestor runs uploads through the pipeline and publishes the result.
type Ingestor struct {
	batcher *pipeline.Batcher
	store   *docstore.Store
	cfg     ChunkConfig
	timeout time.Duration // overall ceiling on one summarization run
	log     *slog.Logger
}

func NewIngestor(batcher *pipeline.Batcher, store *docstore.Store, cfg ChunkConfig, timeout time.Duration, log *slog.Logger) *Ingestor {
	if cfg.MaxSize <= 0 {
		cfg = DefaultChunkConfig()
	}
	return &Ingestor{
		batcher: batcher,
		store:   store,
		cfg:     cfg,
		timeout: timeout,
		log:     log,
	}
}

// Load chunks the extracted pages, indexes every chunk of useful
// length, and atomically replaces the active document. Chunks shorter
// than MinChars are dropped as noise on this path only.
func (s *Ingestor) Load(pages []manual.Page, fileName string) (*docstore.Document, error) {
	chunks := chunker.ChunkPages(pages, s.cfg.MaxSize, s.cfg.Overlap)
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	ix := index.New()
	indexed := 0
	for _, c := range chunks {
		if len([]rune(c.Text)) < s.cfg.MinChars {
			continue
		}
		ix.Add(manual.IndexedChunk{Text: c.Text, Page: c.SourcePage})
		indexed++
	}

	doc := &docstore.Document{
		ID:          uuid.NewString(),
		FileName:    fileName,
		PageCount:   len(pages),
		TotalChunks: indexed,
		Index:       ix,
		LoadedAt:    time.Now(),
	}
	s.store.Replace(doc)

	s.log.Info("document loaded",
		"doc_id", doc.ID,
		"file", fileName,
		"pages", len(pages),
		"chunks", len(chunks),
		"indexed", indexed,
	)
	return doc, nil
}

// Summarize runs the full extraction pipeline over every chunk,
// including short trailing ones, and merges the per-chunk results into
// one deduplicated document. A chunk that exhausts its retry budget
// aborts the whole summary.
func (s *Ingestor) Summarize(ctx context.Context, pages []manual.Page) (manual.AggregateDocument, error) {
	chunks := chunker.ChunkPages(pages, s.cfg.MaxSize, s.cfg.Overlap)
	if len(chunks) == 0 {
		return manual.AggregateDocument{}, ErrEmptyDocument
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	results, err := s.batcher.Process(ctx, chunks)
	if err != nil {
		return manual.AggregateDocument{}, err
	}
	return pipeline.Merge(results), nil
}
