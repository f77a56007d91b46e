package extract

import (
	"fmt"
	"strings"

	"manualqa/internal/manual"
)

const chunkPrompt = `You are analyzing a section of a technical manual. Extract the structured content below and return a single JSON object with these fields:

- "keyPoints": prerequisites, requirements, and important facts (list of strings)
- "warnings": safety warnings, cautions, and things that can go wrong (list of strings)
- "steps": procedural steps in the order they appear (list of strings)

Rules:
- Only extract what the text actually says, no speculation
- Keep each entry short and self-contained
- Use empty lists for fields with nothing to extract
- Respond with ONLY the JSON object, no other text.`

// BuildChunkPrompt creates the extraction prompt for one chunk of
// manual text.
func BuildChunkPrompt(chunkText string) string {
	var sb strings.Builder
	sb.WriteString(chunkPrompt)
	sb.WriteString("\n\n---\n")
	sb.WriteString(chunkText)
	return sb.String()
}

// BuildAnswerPrompt creates a grounding prompt: the question plus each
// retrieved section with its page number, instructing the model to
// answer from the excerpts only and cite pages.
func BuildAnswerPrompt(question string, hits []manual.SearchHit) string {
	var sb strings.Builder
	sb.WriteString("Answer the question using ONLY the manual excerpts below. Cite page numbers in your answer. If the excerpts do not contain the answer, say so.\n\n")
	for _, hit := range hits {
		sb.WriteString(fmt.Sprintf("[Page %d]\n%s\n\n", hit.Page, hit.Text))
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}
