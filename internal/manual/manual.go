package manual

// Page is one page of extracted document text, as produced by a parser.
type Page struct {
	Number int    // 1-based page number
	Text   string // Plain text content of the page
}

// Chunk is a bounded substring of the document text, the unit of
// extraction work sent to the model.
type Chunk struct {
	Text          string
	SourcePage    int // Page the chunk was cut from
	SequenceIndex int // Position in the document-wide chunk sequence
}

// ExtractionResult is the structured output the model returns for one chunk.
type ExtractionResult struct {
	KeyPoints []string `json:"keyPoints"`
	Warnings  []string `json:"warnings"`
	Steps     []string `json:"steps"`
}

// DefaultTitle is used for merged summaries; the merge step does not
// infer a title from content.
const DefaultTitle = "Technical Manual Summary"

// AggregateDocument is the deduplicated merge of all chunk extractions.
// Each field preserves first-seen order and contains no duplicates.
type AggregateDocument struct {
	Title         string   `json:"title"`
	Prerequisites []string `json:"prerequisites"`
	Warnings      []string `json:"warnings"`
	Steps         []string `json:"steps"`
}

// IndexedChunk is a chunk as held by the relevance index.
type IndexedChunk struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

// SearchHit is one ranked result from a relevance query. Ephemeral;
// produced per query and discarded after the response is built.
type SearchHit struct {
	Text  string  `json:"text"`
	Page  int     `json:"page"`
	Score float64 `json:"score"`
}

// QueryResponse is the answer to a free-text question against the
// loaded document.
type QueryResponse struct {
	Answer           string        `json:"answer"`
	RelevantSections []SearchHit   `json:"relevant_sections"`
	Metadata         QueryMetadata `json:"metadata"`
}

// QueryMetadata describes where an answer came from.
type QueryMetadata struct {
	DocumentID     string  `json:"document_id"`
	FileName       string  `json:"file_name"`
	PageCount      int     `json:"page_count"`
	ChunksSearched int     `json:"chunks_searched"`
	Confidence     float64 `json:"confidence"`
}
