package query

import (
	"fmt"
	"strings"

	"github.com/gzeric2k/library-news-extract/internal/domain"
	"github.com/gzeric2k/library-news-extract/internal/domain/search/field"
)

// Op ties a condition to the condition before it.
type Op string

// Boolean operators. OpNone is the implicit operator of the first
// condition; the serializer never emits it.
const (
	OpNone Op = ""
	OpAnd  Op = "and"
	OpOr   Op = "or"
	OpNot  Op = "not"
)

// IsValid checks if the operator is one of the supported values.
func (o Op) IsValid() bool {
	return o == OpNone || o == OpAnd || o == OpOr || o == OpNot
}

// Condition is a single search clause: a value scoped to a field, tied
// to the previous condition by a boolean operator. Wildcards (* and ?)
// pass through to the archive; phrases are quoted on serialization.
type Condition struct {
	value    string
	fld      field.Field
	op       Op
	isPhrase bool
}

// NewCondition validates and creates a search condition.
func NewCondition(value string, f field.Field, op Op, isPhrase bool) (Condition, error) {
	if strings.TrimSpace(value) == "" {
		return Condition{}, fmt.Errorf("%w: value is required", domain.ErrInvalidCondition)
	}
	if !f.IsValid() {
		return Condition{}, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidCondition, f)
	}
	if !op.IsValid() {
		return Condition{}, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidCondition, op)
	}
	if isPhrase && strings.ContainsRune(value, '"') {
		return Condition{}, fmt.Errorf("%w: phrase %q contains unescaped quotes", domain.ErrInvalidCondition, value)
	}
	return Condition{value: value, fld: f, op: op, isPhrase: isPhrase}, nil
}

// Value returns the raw search value.
func (c Condition) Value() string { return c.value }

// Field returns the targeted archive field.
func (c Condition) Field() field.Field { return c.fld }

// Op returns the operator tying this condition to the previous one.
func (c Condition) Op() Op { return c.op }

// IsPhrase reports whether the value is an exact phrase.
func (c Condition) IsPhrase() bool { return c.isPhrase }

// HasWildcard reports whether the value carries archive wildcards.
func (c Condition) HasWildcard() bool {
	return strings.ContainsAny(c.value, "*?")
}
