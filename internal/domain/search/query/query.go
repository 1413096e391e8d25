// Package query holds the structured, field-scoped boolean
// representation of an archive search before serialization.
package query

import (
	"fmt"
	"strings"

	"github.com/gzeric2k/library-news-extract/internal/domain"
)

// Result-set limits.
const (
	DefaultMaxResults = 60
	MaxMaxResults     = 500
)

// YearRange bounds a query to a publication year span (inclusive).
// Zero-valued means unbounded.
type YearRange struct {
	From int
	To   int
}

// IsSet reports whether the range constrains anything.
func (y YearRange) IsSet() bool { return y.From != 0 || y.To != 0 }

// Query is an ordered, validated archive search. Conditions apply
// left-to-right, each tied to its predecessor by its operator.
type Query struct {
	conditions []Condition
	maxResults int
	sortByDate bool
	collection string
	colLabel   string
	years      YearRange
}

// New validates and creates a structured query. At least one condition
// is required; maxResults defaults to DefaultMaxResults and is clamped.
func New(conditions []Condition, maxResults int, sortByDate bool, collection, collectionLabel string, years YearRange) (Query, error) {
	if len(conditions) == 0 {
		return Query{}, domain.ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxMaxResults {
		maxResults = MaxMaxResults
	}
	owned := make([]Condition, len(conditions))
	copy(owned, conditions)
	return Query{
		conditions: owned,
		maxResults: maxResults,
		sortByDate: sortByDate,
		collection: collection,
		colLabel:   collectionLabel,
		years:      years,
	}, nil
}

// Conditions returns the ordered condition list.
func (q Query) Conditions() []Condition { return q.conditions }

// MaxResults returns the result cap.
func (q Query) MaxResults() int { return q.maxResults }

// SortByDate reports whether results sort newest-first instead of by relevance.
func (q Query) SortByDate() bool { return q.sortByDate }

// Collection returns the archive source-collection code (empty = all sources).
func (q Query) Collection() string { return q.collection }

// CollectionLabel returns the display label of the source collection.
func (q Query) CollectionLabel() string { return q.colLabel }

// Years returns the publication-year bounds.
func (q Query) Years() YearRange { return q.years }

// Summary renders a human-readable description of the query for logs.
func (q Query) Summary() string {
	var b strings.Builder
	for i, c := range q.conditions {
		if i > 0 {
			fmt.Fprintf(&b, " %s", strings.ToUpper(string(c.Op())))
		}
		val := c.Value()
		if c.IsPhrase() {
			val = `"` + val + `"`
		}
		fmt.Fprintf(&b, " [%s: %s]", c.Field(), val)
	}
	fmt.Fprintf(&b, " (max %d", q.maxResults)
	if q.sortByDate {
		b.WriteString(", newest first")
	}
	if q.collection != "" {
		fmt.Fprintf(&b, ", source %s", q.collection)
	}
	if q.years.IsSet() {
		fmt.Fprintf(&b, ", years %d-%d", q.years.From, q.years.To)
	}
	b.WriteString(")")
	return strings.TrimSpace(b.String())
}
