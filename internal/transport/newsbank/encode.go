// Package newsbank speaks the archive's advanced-search wire format:
// deterministic query-string encoding and paginated result fetching.
package newsbank

import (
	"fmt"
	"strings"

	"github.com/gzeric2k/library-news-extract/internal/domain/search/query"
)

// Encoder defaults.
const (
	DefaultProductID      = "AWGLNB"
	DefaultHideDuplicates = 2
)

// Encoder serializes structured queries into the archive's query-string
// format. Identical queries always encode to byte-identical strings, so
// the output is safe to use as an upstream cache/dedup key.
type Encoder struct {
	ProductID      string
	HideDuplicates int
}

// NewEncoder creates an encoder with archive defaults.
func NewEncoder() *Encoder {
	return &Encoder{ProductID: DefaultProductID, HideDuplicates: DefaultHideDuplicates}
}

// Encode renders the query string (without base URL or page number).
// Parameter order is fixed: product, duplicate filter, result cap,
// advanced flag, sort, source collection, then the condition triples in
// insertion order, each operator emitted before its value and field.
func (e *Encoder) Encode(q query.Query) string {
	params := make([]string, 0, 8+3*len(q.Conditions()))

	params = append(params,
		"p="+e.ProductID,
		fmt.Sprintf("hide_duplicates=%d", e.HideDuplicates),
		fmt.Sprintf("maxresults=%d", q.MaxResults()),
		"f=advanced",
	)

	if q.SortByDate() {
		params = append(params, "sort=YMD_date%3AD")
	}

	if q.Collection() != "" {
		params = append(params, "t=favorite%3A"+q.Collection()+"%21"+escapeValue(escapeValue(q.CollectionLabel())))
	}

	idx := 0
	for _, c := range q.Conditions() {
		params = append(params, conditionParams(c, idx)...)
		idx++
	}

	// A set year range rides as one more AND condition on the date index.
	if y := q.Years(); y.IsSet() {
		params = append(params,
			fmt.Sprintf("bln-base-%d=and", idx),
			fmt.Sprintf("val-base-%d=%d-%d", idx, y.From, y.To),
			fmt.Sprintf("fld-base-%d=YMD_date", idx),
		)
	}

	return strings.Join(params, "&")
}

func conditionParams(c query.Condition, i int) []string {
	out := make([]string, 0, 3)
	if i > 0 && c.Op() != query.OpNone {
		out = append(out, fmt.Sprintf("bln-base-%d=%s", i, c.Op()))
	}

	val := c.Value()
	if c.IsPhrase() {
		val = `"` + val + `"`
	}
	out = append(out,
		fmt.Sprintf("val-base-%d=%s", i, escapeValue(val)),
		fmt.Sprintf("fld-base-%d=%s", i, c.Field()),
	)
	return out
}

// escapeValue percent-encodes a condition value. The archive expects
// wildcards (* ?) and phrase quotes to pass through literally; spaces
// encode as %20.
func escapeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '-' || ch == '_' || ch == '.' || ch == '~':
			b.WriteByte(ch)
		case ch == '*' || ch == '?' || ch == '"':
			b.WriteByte(ch)
		default:
			fmt.Fprintf(&b, "%%%02X", ch)
		}
	}
	return b.String()
}
