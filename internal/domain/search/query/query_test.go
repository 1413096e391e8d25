package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/gzeric2k/library-news-extract/internal/domain"
	"github.com/gzeric2k/library-news-extract/internal/domain/search/field"
)

func TestNewCondition_Valid(t *testing.T) {
	c, err := NewCondition("penfold*", field.Title, OpNone, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.HasWildcard() {
		t.Fatal("expected wildcard detection for penfold*")
	}
	if c.IsPhrase() {
		t.Fatal("not a phrase")
	}
}

func TestNewCondition_EmptyValue(t *testing.T) {
	_, err := NewCondition("   ", field.AllText, OpAnd, false)
	if !errors.Is(err, domain.ErrInvalidCondition) {
		t.Fatalf("expected ErrInvalidCondition, got %v", err)
	}
}

func TestNewCondition_PhraseWithQuotes(t *testing.T) {
	_, err := NewCondition(`treasury "wine"`, field.AllText, OpAnd, true)
	if !errors.Is(err, domain.ErrInvalidCondition) {
		t.Fatalf("expected ErrInvalidCondition for quoted phrase, got %v", err)
	}
}

func TestNewCondition_UnknownField(t *testing.T) {
	_, err := NewCondition("wine", field.Field("Body"), OpAnd, false)
	if !errors.Is(err, domain.ErrInvalidCondition) {
		t.Fatalf("expected ErrInvalidCondition, got %v", err)
	}
}

func TestNew_RequiresConditions(t *testing.T) {
	_, err := New(nil, 60, true, "", "", YearRange{})
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestNew_ClampsMaxResults(t *testing.T) {
	c, _ := NewCondition("wine", field.AllText, OpNone, false)

	q, err := New([]Condition{c}, 0, false, "", "", YearRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.MaxResults() != DefaultMaxResults {
		t.Fatalf("MaxResults() = %d, want default %d", q.MaxResults(), DefaultMaxResults)
	}

	q, _ = New([]Condition{c}, 10_000, false, "", "", YearRange{})
	if q.MaxResults() != MaxMaxResults {
		t.Fatalf("MaxResults() = %d, want cap %d", q.MaxResults(), MaxMaxResults)
	}
}

func TestSummary(t *testing.T) {
	c1, _ := NewCondition("penfold*", field.Title, OpNone, false)
	c2, _ := NewCondition("treasury wine", field.AllText, OpAnd, true)
	q, _ := New([]Condition{c1, c2}, 60, true, "AFRWAFRN", "AFR Collection", YearRange{From: 2020, To: 2024})

	s := q.Summary()
	for _, want := range []string{"penfold*", `AND`, `"treasury wine"`, "newest first", "AFRWAFRN", "2020-2024"} {
		if !strings.Contains(s, want) {
			t.Fatalf("Summary() = %q, missing %q", s, want)
		}
	}
}
