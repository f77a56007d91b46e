package chunker

import (
	"strings"
	"unicode"

	"manualqa/internal/manual"
)

// MinIndexable is the minimum useful chunk length in characters. Chunks
// below it are dropped when building the relevance index, but never
// dropped on the summarization path: a short trailing chunk must still
// be summarized.
const MinIndexable = 50

// Split cuts text into chunks of at most maxSize characters, with
// consecutive chunks sharing overlap characters of context. Each cut is
// placed at a sentence boundary when one exists within range, otherwise
// the chunk is hard-cut at maxSize. Chunks are exact substrings of the
// input: concatenating them with the overlaps removed reconstructs the
// original text. Deterministic for a given input and parameters.
func Split(text string, maxSize, overlap int) []string {
	if text == "" || maxSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize - 1
	}

	runes := []rune(text)
	var chunks []string

	start := 0
	for start < len(runes) {
		if start+maxSize >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := boundaryBefore(runes, start, start+maxSize)
		if cut <= start {
			cut = start + maxSize
		}
		chunks = append(chunks, string(runes[start:cut]))

		next := cut - overlap
		if next <= start {
			// Overlap would stall the scan; skip it for this step.
			next = cut
		}
		start = next
	}

	return chunks
}

// boundaryBefore finds the rightmost sentence boundary at or before
// limit: sentence-ending punctuation followed by whitespace and a
// capital letter. The returned index is where the next sentence starts;
// -1 if no boundary exists in (start, limit].
func boundaryBefore(runes []rune, start, limit int) int {
	for i := limit; i > start+1; i-- {
		if !unicode.IsUpper(runes[i]) {
			continue
		}
		if !unicode.IsSpace(runes[i-1]) {
			continue
		}
		// Walk back over the whitespace run to the punctuation.
		j := i - 1
		for j > start && unicode.IsSpace(runes[j]) {
			j--
		}
		if isSentenceEnd(runes[j]) {
			return i
		}
	}
	return -1
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// ChunkPages splits every page of a document and tags each chunk with
// its source page and document-wide sequence index. Pages with no text
// contribute nothing.
func ChunkPages(pages []manual.Page, maxSize, overlap int) []manual.Chunk {
	var chunks []manual.Chunk
	seq := 0
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		for _, part := range Split(page.Text, maxSize, overlap) {
			chunks = append(chunks, manual.Chunk{
				Text:          part,
				SourcePage:    page.Number,
				SequenceIndex: seq,
			})
			seq++
		}
	}
	return chunks
}
