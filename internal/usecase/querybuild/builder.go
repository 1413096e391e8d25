// Package querybuild assembles expanded term sets and explicit boolean
// conditions into a structured archive query.
package querybuild

import (
	"context"
	"fmt"
	"strings"

	"github.com/gzeric2k/library-news-extract/internal/domain"
	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
	"github.com/gzeric2k/library-news-extract/internal/domain/search/field"
	"github.com/gzeric2k/library-news-extract/internal/domain/search/query"
	"github.com/gzeric2k/library-news-extract/internal/usecase/expansion"
)

// Builder is a single-use query accumulator: add conditions, then Build
// exactly once. Any mutation after Build fails with ErrBuilderSealed.
type Builder struct {
	expander   expansion.Expander
	conditions []query.Condition
	maxResults int
	sortByDate bool
	collection string
	colLabel   string
	years      query.YearRange
	built      bool
}

// New creates a query builder. The expander may be nil when AddExpanded
// is not used.
func New(expander expansion.Expander) *Builder {
	return &Builder{expander: expander, sortByDate: true}
}

// MaxResults sets the result cap.
func (b *Builder) MaxResults(n int) *Builder {
	b.maxResults = n
	return b
}

// SortByDate toggles newest-first ordering (on by default).
func (b *Builder) SortByDate(on bool) *Builder {
	b.sortByDate = on
	return b
}

// Collection restricts the query to one archive source collection.
func (b *Builder) Collection(code, label string) *Builder {
	b.collection = code
	b.colLabel = label
	return b
}

// Years bounds the query to a publication year span.
func (b *Builder) Years(from, to int) *Builder {
	b.years = query.YearRange{From: from, To: to}
	return b
}

// AddCondition appends a search condition. The first condition's
// operator is ignored; later conditions tie to their predecessor.
func (b *Builder) AddCondition(value string, f field.Field, op query.Op) error {
	return b.append(value, f, op, false)
}

// AddPhrase appends an exact-phrase condition.
func (b *Builder) AddPhrase(value string, f field.Field, op query.Op) error {
	return b.append(value, f, op, true)
}

// Exclude appends a NOT condition for the value.
func (b *Builder) Exclude(value string, f field.Field) error {
	return b.append(value, f, query.OpNot, false)
}

// AddExpanded expands the seed and appends one OR-joined condition group
// containing the seed plus all expansion candidates, scoped to f and
// tied to the previous conditions by op.
func (b *Builder) AddExpanded(ctx context.Context, seed string, f field.Field, mode expand.Mode, topK int, op query.Op) error {
	if b.built {
		return domain.ErrBuilderSealed
	}
	if b.expander == nil {
		return fmt.Errorf("%w: no expander configured", domain.ErrInvalidCondition)
	}

	candidates, err := b.expander.Expand(ctx, seed, mode, topK)
	if err != nil {
		return fmt.Errorf("expand %q: %w", seed, err)
	}

	terms := make([]string, 0, len(candidates)+1)
	terms = append(terms, seed)
	for _, c := range candidates {
		terms = append(terms, c.Term)
	}
	return b.append(orGroup(terms), f, op, false)
}

// Build validates and seals the builder, producing the structured query.
func (b *Builder) Build() (query.Query, error) {
	if b.built {
		return query.Query{}, domain.ErrBuilderSealed
	}
	if len(b.conditions) == 0 {
		return query.Query{}, domain.ErrEmptyQuery
	}
	b.built = true
	return query.New(b.conditions, b.maxResults, b.sortByDate, b.collection, b.colLabel, b.years)
}

func (b *Builder) append(value string, f field.Field, op query.Op, isPhrase bool) error {
	if b.built {
		return domain.ErrBuilderSealed
	}
	if len(b.conditions) == 0 {
		op = query.OpNone
	} else if op == query.OpNone {
		op = query.OpAnd
	}
	c, err := query.NewCondition(value, f, op, isPhrase)
	if err != nil {
		return err
	}
	b.conditions = append(b.conditions, c)
	return nil
}

// orGroup joins terms with OR, quoting multi-word terms the way the
// archive's advanced search expects.
func orGroup(terms []string) string {
	parts := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if strings.Contains(t, " ") {
			t = `"` + t + `"`
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " OR ")
}
