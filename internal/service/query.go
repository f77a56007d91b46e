package service

import (
	"context"
	"fmt"
	"log/slog"

	"manualqa/internal/docstore"
	"manualqa/internal/extract"
	"manualqa/internal/manual"
)

// NoMatchAnswer is returned when the query has no lexical match in the
// loaded document. The remote model is not called in that case.
const NoMatchAnswer = "I could not find relevant information about that in the loaded manual."

// Answerer is the external collaborator that turns a grounding prompt
// into a natural-language answer.
type Answerer interface {
	AnswerQuestion(ctx context.Context, prompt string) (string, error)
}

// Querier answers free-text questions against the loaded document.
type Querier struct {
	store  *docstore.Store
	client Answerer
	topK   int
	log    *slog.Logger
}

func NewQuerier(store *docstore.Store, client Answerer, topK int, log *slog.Logger) *Querier {
	if topK <= 0 {
		topK = 5
	}
	return &Querier{store: store, client: client, topK: topK, log: log}
}

// Answer retrieves the top-K relevant chunks, builds a grounding prompt
// with their page numbers, and delegates to the model. Zero hits short
// circuit with a fixed answer and confidence 0. A failed query leaves
// the document state untouched and can be retried.
func (q *Querier) Answer(ctx context.Context, question string) (manual.QueryResponse, error) {
	doc, err := q.store.Current()
	if err != nil {
		return manual.QueryResponse{}, err
	}
	// A published document whose every chunk fell below the index floor
	// has nothing to search; treat it the same as no document.
	if doc.Index.Len() == 0 {
		return manual.QueryResponse{}, docstore.ErrNoDocument
	}

	meta := manual.QueryMetadata{
		DocumentID:     doc.ID,
		FileName:       doc.FileName,
		PageCount:      doc.PageCount,
		ChunksSearched: doc.Index.Len(),
	}

	hits := doc.Index.Search(question, q.topK)
	if len(hits) == 0 {
		return manual.QueryResponse{
			Answer:           NoMatchAnswer,
			RelevantSections: []manual.SearchHit{},
			Metadata:         meta,
		}, nil
	}

	answer, err := q.client.AnswerQuestion(ctx, extract.BuildAnswerPrompt(question, hits))
	if err != nil {
		return manual.QueryResponse{}, fmt.Errorf("answer query: %w", err)
	}

	meta.Confidence = confidence(hits[0].Score)
	q.log.Info("query answered", "doc_id", doc.ID, "hits", len(hits), "top_score", hits[0].Score)

	return manual.QueryResponse{
		Answer:           answer,
		RelevantSections: hits,
		Metadata:         meta,
	}, nil
}

// confidence maps the top lexical score onto (0, 1]. The scale is
// heuristic: scores around 10 already indicate strong term coverage.
func confidence(topScore float64) float64 {
	c := topScore / 10
	if c > 1 {
		c = 1
	}
	return c
}
