package expansion

import (
	"context"

	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
)

// Expander is the term-expansion contract shared by the service and its
// cache decorator.
type Expander interface {
	Expand(ctx context.Context, seed string, mode expand.Mode, topK int) ([]expand.Candidate, error)
}

// Knowledge is the read-only term graph consumed by expansion.
type Knowledge interface {
	Synonyms(term string) []string
	Broader(term string) []string
	Vocabulary() []string
}
