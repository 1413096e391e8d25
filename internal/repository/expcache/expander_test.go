package expcache

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
)

type mockExpander struct {
	result []expand.Candidate
	err    error
	calls  int
}

func (m *mockExpander) Expand(_ context.Context, _ string, _ expand.Mode, _ int) ([]expand.Candidate, error) {
	m.calls++
	return m.result, m.err
}

func TestExpand_CachesByKey(t *testing.T) {
	inner := &mockExpander{result: []expand.Candidate{
		{Term: "twe", Score: 0.9, Source: expand.SourceDomain},
	}}
	ce := New(inner, 8, nil)
	ctx := context.Background()

	first, err := ce.Expand(ctx, "treasury wine", expand.Moderate, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ce.Expand(ctx, "treasury wine", expand.Moderate, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("inner called %d times, want 1 (second call must hit cache)", inner.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cache returned different result:\n%v\n%v", first, second)
	}
}

func TestExpand_KeyIncludesModeAndTopK(t *testing.T) {
	inner := &mockExpander{}
	ce := New(inner, 8, nil)
	ctx := context.Background()

	_, _ = ce.Expand(ctx, "wine", expand.Moderate, 5)
	_, _ = ce.Expand(ctx, "wine", expand.Aggressive, 5)
	_, _ = ce.Expand(ctx, "wine", expand.Moderate, 3)

	if inner.calls != 3 {
		t.Fatalf("inner called %d times, want 3 (distinct keys)", inner.calls)
	}
}

func TestExpand_NormalizedSeedSharesKey(t *testing.T) {
	inner := &mockExpander{}
	ce := New(inner, 8, nil)
	ctx := context.Background()

	_, _ = ce.Expand(ctx, "Penfold's", expand.Moderate, 5)
	_, _ = ce.Expand(ctx, "penfolds", expand.Moderate, 5)

	if inner.calls != 1 {
		t.Fatalf("inner called %d times, want 1 (normalized seeds share key)", inner.calls)
	}
}

func TestExpand_ErrorNotCached(t *testing.T) {
	inner := &mockExpander{err: errors.New("boom")}
	ce := New(inner, 8, nil)
	ctx := context.Background()

	if _, err := ce.Expand(ctx, "wine", expand.Moderate, 5); err == nil {
		t.Fatal("expected error")
	}
	inner.err = nil
	if _, err := ce.Expand(ctx, "wine", expand.Moderate, 5); err != nil {
		t.Fatalf("error was cached: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner called %d times, want 2", inner.calls)
	}
}

func TestExpand_BoundedEviction(t *testing.T) {
	inner := &mockExpander{}
	ce := New(inner, 2, nil)
	ctx := context.Background()

	_, _ = ce.Expand(ctx, "a", expand.Moderate, 5)
	_, _ = ce.Expand(ctx, "b", expand.Moderate, 5)
	_, _ = ce.Expand(ctx, "c", expand.Moderate, 5)

	if ce.Len() != 2 {
		t.Fatalf("cache len = %d, want bounded at 2", ce.Len())
	}
}
