// Package relevance implements hybrid weighted scoring of article
// metadata against the original seed terms.
package relevance

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gzeric2k/library-news-extract/internal/domain"
	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
	"github.com/gzeric2k/library-news-extract/internal/domain/knowledge"
	"github.com/gzeric2k/library-news-extract/internal/metrics"
)

// Per-seed keyword credit. A title match counts double a preview match,
// normalized so a title hit gives full credit.
const (
	titleCredit   = 1.0
	previewCredit = 0.5
)

// Weights splits the combined score between the two signals. Must sum
// to 1.0; config validation enforces that upstream.
type Weights struct {
	Keyword  float64
	Judgment float64
}

// DefaultWeights is an even split between keyword overlap and judgment.
func DefaultWeights() Weights {
	return Weights{Keyword: 0.5, Judgment: 0.5}
}

// Config holds the scorer settings.
type Config struct {
	Weights Weights
	// Expansion of seeds for keyword matching. Conservative keeps the
	// match set high-precision.
	ExpansionMode expand.Mode
	ExpansionTopK int
	// MaxConcurrency bounds parallel judge calls during batch scoring.
	MaxConcurrency int
}

// Service scores articles. Both collaborators are optional: a nil judge
// collapses the judgment weight onto the keyword signal, a nil expander
// matches seeds verbatim only.
type Service struct {
	expander Expander
	judge    Judge
	cfg      Config
	logger   *zap.Logger
}

// New creates a relevance scorer.
func New(expander Expander, judge Judge, cfg Config, logger *zap.Logger) *Service {
	if cfg.Weights.Keyword == 0 && cfg.Weights.Judgment == 0 {
		cfg.Weights = DefaultWeights()
	}
	if !cfg.ExpansionMode.IsValid() {
		cfg.ExpansionMode = expand.Conservative
	}
	if cfg.ExpansionTopK <= 0 {
		cfg.ExpansionTopK = 3
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{expander: expander, judge: judge, cfg: cfg, logger: logger}
}

// Score computes the relevance decision for one article. It is total:
// any failure of an optional signal degrades the score, never errors.
func (s *Service) Score(ctx context.Context, article domain.ArticleMetadata, seeds []string, threshold float64) domain.RelevanceDecision {
	keyword := s.keywordSignal(ctx, article, seeds)

	judgment := keyword
	judgmentAvailable := false
	if s.judge != nil && len(seeds) > 0 {
		verdict, err := s.judge.Judge(ctx, strings.Join(seeds, ", "), article.Title, article.Preview)
		if err != nil {
			s.logger.Warn("Judgment oracle unavailable, degrading to keyword signal",
				zap.String("article_id", article.ID), zap.Error(err))
		} else {
			judgment = verdict
			judgmentAvailable = true
		}
	}

	combined := s.cfg.Weights.Keyword*keyword + s.cfg.Weights.Judgment*judgment
	combined = clamp01(combined)
	accepted := combined >= threshold

	verdict := "rejected"
	if accepted {
		verdict = "accepted"
	}
	metrics.ArticlesScoredTotal.WithLabelValues(verdict).Inc()

	return domain.RelevanceDecision{
		ArticleID: article.ID,
		Combined:  combined,
		Accepted:  accepted,
		Position:  article.Position,
		Breakdown: map[string]domain.SignalScore{
			domain.SignalKeyword: {
				Raw:       keyword,
				Weighted:  s.cfg.Weights.Keyword * keyword,
				Available: len(seeds) > 0,
			},
			domain.SignalJudgment: {
				Raw:       judgment,
				Weighted:  s.cfg.Weights.Judgment * judgment,
				Available: judgmentAvailable,
			},
		},
	}
}

// keywordSignal is the fraction of seeds found in the article text. Each
// seed counts the best match among itself and its domain expansions.
func (s *Service) keywordSignal(ctx context.Context, article domain.ArticleMetadata, seeds []string) float64 {
	if len(seeds) == 0 {
		return 0
	}
	title := knowledge.Normalize(article.Title)
	preview := knowledge.Normalize(article.Preview)

	var sum float64
	for _, seed := range seeds {
		sum += s.seedCredit(ctx, title, preview, seed)
	}
	return clamp01(sum / float64(len(seeds)))
}

func (s *Service) seedCredit(ctx context.Context, title, preview, seed string) float64 {
	terms := []string{knowledge.Normalize(seed)}
	if s.expander != nil {
		candidates, err := s.expander.Expand(ctx, seed, s.cfg.ExpansionMode, s.cfg.ExpansionTopK)
		if err != nil {
			s.logger.Warn("Seed expansion failed during scoring", zap.String("seed", seed), zap.Error(err))
		}
		for _, c := range candidates {
			if c.Source == expand.SourceDomain {
				terms = append(terms, c.Term)
			}
		}
	}

	var best float64
	for _, term := range terms {
		if term == "" {
			continue
		}
		switch {
		case strings.Contains(title, term):
			return titleCredit
		case strings.Contains(preview, term) && best < previewCredit:
			best = previewCredit
		}
	}
	return best
}

// ScoreBatch scores articles independently, with judge calls bounded by
// MaxConcurrency. Cancellation is checked between articles; decisions
// already produced are returned alongside the context error.
func (s *Service) ScoreBatch(ctx context.Context, articles []domain.ArticleMetadata, seeds []string, threshold float64) ([]domain.RelevanceDecision, error) {
	decisions := make([]domain.RelevanceDecision, len(articles))
	scored := make([]bool, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, article := range articles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			decisions[i] = s.Score(gctx, article, seeds, threshold)
			scored[i] = true
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		done := decisions[:0]
		for i := range decisions {
			if scored[i] {
				done = append(done, decisions[i])
			}
		}
		return done, err
	}
	return decisions, nil
}

// TopN returns the n most relevant decisions, combined score descending.
// Ties keep the input (page/position) order so output is deterministic.
func TopN(decisions []domain.RelevanceDecision, n int) []domain.RelevanceDecision {
	out := make([]domain.RelevanceDecision, len(decisions))
	copy(out, decisions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Combined > out[j].Combined })
	if n < 0 || n > len(out) {
		n = len(out)
	}
	return out[:n]
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
