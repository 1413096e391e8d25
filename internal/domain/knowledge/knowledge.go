// Package knowledge holds the static domain term graph used for query
// expansion and relevance adjacency: canonical terms mapped to their
// synonyms and to broader related concepts.
package knowledge

import (
	"sort"
	"strings"
	"unicode"
)

// entry maps one canonical term to its relations. Order is insertion
// order from the definition file and is preserved in lookups.
type entry struct {
	synonyms []string
	broader  []string
}

// Base is the read-only knowledge base. It is fully populated at load
// time; the expansion and scoring hot paths only read it, so no locking
// is required.
type Base struct {
	entries map[string]*entry
	order   []string
}

// NewBase creates an empty knowledge base. Populate it with AddRelation
// during configuration loading, before handing it to consumers.
func NewBase() *Base {
	return &Base{entries: make(map[string]*entry)}
}

// Normalize lowercases a term and strips punctuation so that lookups
// tolerate quoting and possessives ("Penfold's" matches "penfolds").
// Letters and digits from any script survive, so accented and non-Latin
// terms stay intact.
func Normalize(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range strings.ToLower(strings.TrimSpace(term)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == ' ', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// AddRelation records synonyms and broader concepts for a canonical term.
// Used only by configuration loading, never by the expansion hot path.
// A term never lists itself; self-references and duplicates are dropped.
func (b *Base) AddRelation(term string, synonyms, broader []string) {
	key := Normalize(term)
	if key == "" {
		return
	}
	e, ok := b.entries[key]
	if !ok {
		e = &entry{}
		b.entries[key] = e
		b.order = append(b.order, key)
	}
	e.synonyms = appendTerms(e.synonyms, key, synonyms)
	e.broader = appendTerms(e.broader, key, broader)
}

func appendTerms(dst []string, self string, terms []string) []string {
	for _, t := range terms {
		n := Normalize(t)
		if n == "" || n == self {
			continue
		}
		if !containsTerm(dst, n) {
			dst = append(dst, n)
		}
	}
	return dst
}

func containsTerm(list []string, term string) bool {
	for _, t := range list {
		if t == term {
			return true
		}
	}
	return false
}

// lookup resolves a term to its entry: exact match first, then the
// first canonical term (in insertion order) that contains the query or
// is contained by it. Containment matching lets partial company names
// ("treasury wine") reach their full entry ("treasury wine estates").
func (b *Base) lookup(term string) (*entry, bool) {
	key := Normalize(term)
	if key == "" {
		return nil, false
	}
	if e, ok := b.entries[key]; ok {
		return e, true
	}
	for _, canonical := range b.order {
		if strings.Contains(canonical, key) || strings.Contains(key, canonical) {
			return b.entries[canonical], true
		}
	}
	return nil, false
}

// Contains reports whether the term resolves to an entry.
func (b *Base) Contains(term string) bool {
	_, ok := b.lookup(term)
	return ok
}

// Synonyms returns the term's direct synonyms in insertion order.
// Unknown terms return nil, never an error.
func (b *Base) Synonyms(term string) []string {
	if e, ok := b.lookup(term); ok {
		return e.synonyms
	}
	return nil
}

// Broader returns the term's broader related concepts in insertion order.
func (b *Base) Broader(term string) []string {
	if e, ok := b.lookup(term); ok {
		return e.broader
	}
	return nil
}

// Related returns all relations for a term: synonyms first, then broader
// concepts, insertion order preserved within each group.
func (b *Base) Related(term string) []string {
	e, ok := b.lookup(term)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(e.synonyms)+len(e.broader))
	out = append(out, e.synonyms...)
	out = append(out, e.broader...)
	return out
}

// Vocabulary returns every distinct term known to the base (canonical
// terms plus all relations), sorted for deterministic iteration.
func (b *Base) Vocabulary() []string {
	seen := make(map[string]struct{})
	for _, key := range b.order {
		seen[key] = struct{}{}
		e := b.entries[key]
		for _, t := range e.synonyms {
			seen[t] = struct{}{}
		}
		for _, t := range e.broader {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of canonical entries.
func (b *Base) Len() int { return len(b.entries) }
