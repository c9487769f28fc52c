package stats

import "testing"

func TestHitRate(t *testing.T) {
	if got := (Statline{}).HitRate(); got != 0 {
		t.Fatalf("expected 0 hit rate without throws, got %v", got)
	}
	if got := (Statline{Throws: 4, Hits: 1}).HitRate(); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
}
