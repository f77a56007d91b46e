package pipeline

import "manualqa/internal/manual"

// Merge folds per-chunk extraction results into one aggregate document:
// key points become prerequisites, warnings stay warnings, steps stay
// steps. Each field keeps first-seen order and drops exact duplicates
// (case-sensitive). An empty input is a valid, non-error outcome.
func Merge(results []manual.ExtractionResult) manual.AggregateDocument {
	doc := manual.AggregateDocument{
		Title:         manual.DefaultTitle,
		Prerequisites: []string{},
		Warnings:      []string{},
		Steps:         []string{},
	}

	prereqs := make(map[string]struct{})
	warnings := make(map[string]struct{})
	steps := make(map[string]struct{})

	for _, r := range results {
		doc.Prerequisites = appendUnique(doc.Prerequisites, prereqs, r.KeyPoints)
		doc.Warnings = appendUnique(doc.Warnings, warnings, r.Warnings)
		doc.Steps = appendUnique(doc.Steps, steps, r.Steps)
	}

	return doc
}

func appendUnique(dst []string, seen map[string]struct{}, entries []string) []string {
	for _, e := range entries {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		dst = append(dst, e)
	}
	return dst
}
