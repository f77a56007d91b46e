package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"manualqa/internal/manual"
)

var (
	codeBlockRe  = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseExtraction locates and decodes the JSON object embedded in a
// model reply. The reply is free-form natural language that may wrap
// the object in a fenced code block; absence of a well-formed object is
// a *ParseError, distinct from transport failures.
func ParseExtraction(text string) (manual.ExtractionResult, error) {
	span := jsonObjectRe.FindString(stripCodeBlock(text))
	if span == "" {
		return manual.ExtractionResult{}, &ParseError{Reason: "no JSON object found", Raw: text}
	}

	var result manual.ExtractionResult
	if err := json.Unmarshal([]byte(span), &result); err != nil {
		return manual.ExtractionResult{}, &ParseError{Reason: err.Error(), Raw: span}
	}
	return result, nil
}

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}
