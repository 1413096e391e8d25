package relevance

import (
	"context"

	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
)

// Judge is the optional semantic-judgment oracle. Implementations return
// a relevance verdict in [0, 1]; failures wrap domain.ErrJudgeUnavailable.
type Judge interface {
	Judge(ctx context.Context, topic string, title string, preview string) (float64, error)
}

// Expander supplies domain-knowledge expansions of the seed terms so the
// keyword signal also matches known synonyms.
type Expander interface {
	Expand(ctx context.Context, seed string, mode expand.Mode, topK int) ([]expand.Candidate, error)
}
