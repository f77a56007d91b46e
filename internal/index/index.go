// Package index implements the in-memory relevance index used for query
// answering. Scoring is deliberately lexical (term frequency × query
// coverage plus a small context-continuity bonus), not semantic: results
// are deterministic and the formula is part of the service's contract.
package index

import (
	"sort"
	"strings"
	"sync"

	"manualqa/internal/manual"
)

// DefaultTopK is the default number of hits returned by Search.
const DefaultTopK = 5

// adjacencyBonus is added per query token that also occurs in the
// immediately preceding chunk, a weak context-continuity signal.
const adjacencyBonus = 0.5

// Index stores chunks tagged with source-page numbers, in arrival
// order, and answers keyword queries with a ranked subset. Safe for
// concurrent use.
type Index struct {
	mu     sync.RWMutex
	chunks []entry
}

type entry struct {
	chunk   manual.IndexedChunk
	lowered string
}

func New() *Index {
	return &Index{}
}

// Add appends a chunk. Arrival order is significant: it is the tie
// break for equal scores and defines chunk adjacency.
func (ix *Index) Add(chunk manual.IndexedChunk) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.chunks = append(ix.chunks, entry{
		chunk:   chunk,
		lowered: strings.ToLower(chunk.Text),
	})
}

// Clear discards all chunks. Must run before indexing a new document so
// results never mix two documents.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.chunks = nil
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

// Search scores every chunk against the query and returns up to topK
// hits with score > 0, ordered by descending score with ties broken by
// arrival order. A query with no surviving tokens returns nothing.
func (ix *Index) Search(query string, topK int) []manual.SearchHit {
	if topK <= 0 {
		topK = DefaultTopK
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var hits []manual.SearchHit
	for i, e := range ix.chunks {
		score := scoreChunk(e.lowered, tokens)
		if score == 0 {
			continue
		}
		if i > 0 {
			prev := ix.chunks[i-1].lowered
			for _, tok := range tokens {
				if strings.Contains(prev, tok) {
					score += adjacencyBonus
				}
			}
		}
		hits = append(hits, manual.SearchHit{
			Text:  e.chunk.Text,
			Page:  e.chunk.Page,
			Score: score,
		})
	}

	// Stable keeps arrival order (earlier page first) for equal scores.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// scoreChunk computes raw term-occurrence total weighted by the
// fraction of distinct query tokens present in the chunk.
func scoreChunk(lowered string, tokens []string) float64 {
	total := 0
	present := 0
	for _, tok := range tokens {
		n := strings.Count(lowered, tok)
		if n > 0 {
			present++
			total += n
		}
	}
	if present == 0 {
		return 0
	}
	coverage := float64(present) / float64(len(tokens))
	return float64(total) * coverage
}

// Tokenize lower-cases the query, splits on whitespace, and drops
// duplicate tokens and tokens of length <= 2 as stop-noise.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	var tokens []string
	for _, f := range fields {
		if len([]rune(f)) <= 2 {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}
