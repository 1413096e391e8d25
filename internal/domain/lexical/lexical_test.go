package lexical

import "testing"

func TestSimilarity_Reflexive(t *testing.T) {
	for _, term := range []string{"penfolds", "treasury wine", "", "a"} {
		if got := Similarity(term, term); got != 1.0 {
			t.Fatalf("Similarity(%q, %q) = %v, want 1.0", term, term, got)
		}
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"penfolds", "penfold"},
		{"treasury wine", "treasury wine estates"},
		{"wine", "merger"},
		{"twe", "treasury"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Fatalf("Similarity(%q,%q)=%v != Similarity(%q,%q)=%v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestSimilarity_Bounded(t *testing.T) {
	pairs := [][2]string{
		{"penfolds", "penfold"},
		{"a", "completely different"},
		{"wine", "winemaking"},
		{"", "something"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Fatalf("Similarity(%q,%q) = %v out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestSimilarity_ContainmentBonus(t *testing.T) {
	// "wine" is a substring of "winemaking": ratio = 1 - 6/10 = 0.4, +0.15 bonus.
	got := Similarity("wine", "winemaking")
	want := 0.55
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("Similarity(wine, winemaking) = %v, want %v", got, want)
	}
}

func TestSimilarity_CapAtOne(t *testing.T) {
	// One-character edit plus containment would exceed 1.0 without the cap.
	if got := Similarity("penfolds", "penfold"); got > 1.0 {
		t.Fatalf("similarity exceeded cap: %v", got)
	}
}

func TestSimilarity_EmptyVsNonEmpty(t *testing.T) {
	if got := Similarity("", "penfolds"); got != 0.0 {
		t.Fatalf("Similarity(empty, term) = %v, want 0", got)
	}
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	if got := Similarity("Penfolds", "PENFOLDS"); got != 1.0 {
		t.Fatalf("expected case-insensitive match, got %v", got)
	}
}
