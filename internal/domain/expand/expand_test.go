package expand

import (
	"sort"
	"testing"
)

func TestMode_IsValid(t *testing.T) {
	for _, m := range []Mode{Conservative, Moderate, Aggressive} {
		if !m.IsValid() {
			t.Fatalf("mode %q should be valid", m)
		}
	}
	if Mode("reckless").IsValid() {
		t.Fatal("unknown mode should be invalid")
	}
}

func TestMode_FloorsAndCaps(t *testing.T) {
	tests := []struct {
		mode  Mode
		floor float64
		cap   int
	}{
		{Conservative, 0.6, 3},
		{Moderate, 0.4, 5},
		{Aggressive, 0.25, 8},
	}
	for _, tt := range tests {
		if got := tt.mode.ScoreFloor(); got != tt.floor {
			t.Fatalf("%s ScoreFloor() = %v, want %v", tt.mode, got, tt.floor)
		}
		if got := tt.mode.CandidateCap(); got != tt.cap {
			t.Fatalf("%s CandidateCap() = %v, want %v", tt.mode, got, tt.cap)
		}
		if tt.mode.CosineFloor() < tt.mode.ScoreFloor() {
			t.Fatalf("%s cosine floor below score floor", tt.mode)
		}
	}
}

func TestCandidate_Ordering(t *testing.T) {
	cands := []Candidate{
		{Term: "zeta", Score: 0.9, Source: SourceLexical},
		{Term: "alpha", Score: 0.9, Source: SourceLexical},
		{Term: "mid", Score: 0.9, Source: SourceDomain},
		{Term: "emb", Score: 0.9, Source: SourceEmbedding},
		{Term: "top", Score: 0.95, Source: SourceLexical},
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].Less(cands[j]) })

	want := []string{"top", "mid", "emb", "alpha", "zeta"}
	for i, w := range want {
		if cands[i].Term != w {
			t.Fatalf("position %d: got %q, want %q (order %v)", i, cands[i].Term, w, cands)
		}
	}
}
