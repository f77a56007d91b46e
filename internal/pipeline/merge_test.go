package pipeline

import (
	"reflect"
	"testing"

	"manualqa/internal/manual"
)

func TestMerge_EmptyInput(t *testing.T) {
	doc := Merge(nil)

	if doc.Title != manual.DefaultTitle {
		t.Errorf("expected default title, got %q", doc.Title)
	}
	if len(doc.Prerequisites) != 0 || len(doc.Warnings) != 0 || len(doc.Steps) != 0 {
		t.Errorf("expected empty fields, got %+v", doc)
	}
	// Fields must be empty slices, not nil, for stable JSON output.
	if doc.Prerequisites == nil || doc.Warnings == nil || doc.Steps == nil {
		t.Error("expected empty slices, got nil")
	}
}

func TestMerge_DeduplicatesAcrossChunks(t *testing.T) {
	results := []manual.ExtractionResult{
		{
			KeyPoints: []string{"Requires 12V supply", "Use safety gloves"},
			Warnings:  []string{"Hot surface"},
			Steps:     []string{"Open the panel", "Remove the fuse"},
		},
		{
			KeyPoints: []string{"Use safety gloves", "Torque to 5 Nm"},
			Warnings:  []string{"Hot surface", "High voltage"},
			Steps:     []string{"Remove the fuse", "Install the new fuse"},
		},
	}

	doc := Merge(results)

	wantPrereqs := []string{"Requires 12V supply", "Use safety gloves", "Torque to 5 Nm"}
	if !reflect.DeepEqual(doc.Prerequisites, wantPrereqs) {
		t.Errorf("prerequisites: want %v, got %v", wantPrereqs, doc.Prerequisites)
	}
	wantWarnings := []string{"Hot surface", "High voltage"}
	if !reflect.DeepEqual(doc.Warnings, wantWarnings) {
		t.Errorf("warnings: want %v, got %v", wantWarnings, doc.Warnings)
	}
	wantSteps := []string{"Open the panel", "Remove the fuse", "Install the new fuse"}
	if !reflect.DeepEqual(doc.Steps, wantSteps) {
		t.Errorf("steps: want %v, got %v", wantSteps, doc.Steps)
	}
}

func TestMerge_CaseSensitiveDedup(t *testing.T) {
	results := []manual.ExtractionResult{
		{Steps: []string{"open the valve", "Open the valve"}},
	}
	doc := Merge(results)
	if len(doc.Steps) != 2 {
		t.Errorf("dedup must be case-sensitive, got %v", doc.Steps)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	results := []manual.ExtractionResult{
		{
			KeyPoints: []string{"A", "B"},
			Warnings:  []string{"W"},
			Steps:     []string{"S1", "S2"},
		},
		{
			KeyPoints: []string{"B", "C"},
			Steps:     []string{"S2"},
		},
	}
	once := Merge(results)

	again := Merge([]manual.ExtractionResult{{
		KeyPoints: once.Prerequisites,
		Warnings:  once.Warnings,
		Steps:     once.Steps,
	}})

	if !reflect.DeepEqual(once, again) {
		t.Errorf("re-merging merged output changed it:\nonce:  %+v\nagain: %+v", once, again)
	}
}
