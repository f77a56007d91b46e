package extract

import (
	"testing"
	"time"
)

func TestStats_EmptySnapshot(t *testing.T) {
	s := NewStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected empty snapshot, got count %d", snap.Count)
	}
}

func TestStats_Aggregates(t *testing.T) {
	s := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400} {
		s.Record(ms)
	}

	snap := s.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("expected 4 samples, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 400 {
		t.Errorf("min/max: got %d/%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 250 {
		t.Errorf("avg: expected 250, got %v", snap.AvgMs)
	}
	if snap.P50Ms != 250 {
		t.Errorf("p50: expected 250, got %v", snap.P50Ms)
	}
}

func TestStats_NegativeClampedToZero(t *testing.T) {
	s := NewStats(time.Hour)
	s.Record(-50)
	if snap := s.Snapshot(); snap.MinMs != 0 {
		t.Errorf("expected negative duration clamped to 0, got %d", snap.MinMs)
	}
}

func TestPercentile_Bounds(t *testing.T) {
	values := []int64{10, 20, 30, 40, 50}
	if got := percentile(values, 0); got != 10 {
		t.Errorf("p0: expected 10, got %v", got)
	}
	if got := percentile(values, 100); got != 50 {
		t.Errorf("p100: expected 50, got %v", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("empty: expected 0, got %v", got)
	}
}
