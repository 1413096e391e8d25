// Package pipeline runs the full retrieval loop: expand seeds, build
// the archive query, paginate, and score every article fetched.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gzeric2k/library-news-extract/internal/domain"
	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
	"github.com/gzeric2k/library-news-extract/internal/domain/search/field"
	"github.com/gzeric2k/library-news-extract/internal/domain/search/query"
	"github.com/gzeric2k/library-news-extract/internal/usecase/expansion"
	"github.com/gzeric2k/library-news-extract/internal/usecase/querybuild"
)

// Fetcher retrieves result pages for a built query.
type Fetcher interface {
	FetchPage(ctx context.Context, q query.Query, page int) (articles []domain.ArticleMetadata, hasNext bool, err error)
	Serialize(q query.Query) string
}

// Scorer turns fetched article metadata into relevance decisions.
type Scorer interface {
	ScoreBatch(ctx context.Context, articles []domain.ArticleMetadata, seeds []string, threshold float64) ([]domain.RelevanceDecision, error)
}

// Config holds the orchestration settings.
type Config struct {
	Mode       expand.Mode
	TopK       int
	MaxResults int
	MaxPages   int
	Threshold  float64
	Collection string
	ColLabel   string
	YearFrom   int
	YearTo     int
}

// Result is one completed retrieval run.
type Result struct {
	Query     string
	Summary   string
	Articles  []domain.ArticleMetadata
	Decisions []domain.RelevanceDecision
	Accepted  int
	Pages     int
}

// Service glues expansion, query building, pagination and scoring.
type Service struct {
	expander expansion.Expander
	fetcher  Fetcher
	scorer   Scorer
	cfg      Config
	logger   *zap.Logger
}

// New creates the pipeline orchestrator.
func New(expander expansion.Expander, fetcher Fetcher, scorer Scorer, cfg Config, logger *zap.Logger) *Service {
	if !cfg.Mode.IsValid() {
		cfg.Mode = expand.Moderate
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{expander: expander, fetcher: fetcher, scorer: scorer, cfg: cfg, logger: logger}
}

// Run executes one retrieval for the given seeds. The first seed anchors
// the query; remaining seeds narrow it with AND groups. Pagination stops
// at MaxPages, on the last page, or on cancellation; articles already
// scored are kept in the partial result.
func (s *Service) Run(ctx context.Context, seeds []string) (Result, error) {
	if len(seeds) == 0 {
		return Result{}, fmt.Errorf("build query: %w", domain.ErrEmptyQuery)
	}

	q, err := s.buildQuery(ctx, seeds)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Query:   s.fetcher.Serialize(q),
		Summary: q.Summary(),
	}
	s.logger.Info("Running retrieval", zap.Strings("seeds", seeds), zap.String("query", res.Summary))

	for page := 1; page <= s.cfg.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		articles, hasNext, err := s.fetcher.FetchPage(ctx, q, page)
		if err != nil {
			return res, fmt.Errorf("fetch page %d: %w", page, err)
		}
		res.Pages = page

		// Positions are per-page from the parser; renumber across the
		// whole scan so ranking tie-breaks stay stable.
		for i := range articles {
			articles[i].Position = len(res.Articles) + i
		}

		decisions, err := s.scorer.ScoreBatch(ctx, articles, seeds, s.cfg.Threshold)
		res.Articles = append(res.Articles, articles...)
		res.Decisions = append(res.Decisions, decisions...)
		if err != nil {
			return res, fmt.Errorf("score page %d: %w", page, err)
		}

		if !hasNext {
			break
		}
	}

	for _, d := range res.Decisions {
		if d.Accepted {
			res.Accepted++
		}
	}
	s.logger.Info("Retrieval finished",
		zap.Int("pages", res.Pages),
		zap.Int("articles", len(res.Articles)),
		zap.Int("accepted", res.Accepted))
	return res, nil
}

func (s *Service) buildQuery(ctx context.Context, seeds []string) (query.Query, error) {
	b := querybuild.New(s.expander).
		MaxResults(s.cfg.MaxResults).
		Collection(s.cfg.Collection, s.cfg.ColLabel)
	if s.cfg.YearFrom > 0 || s.cfg.YearTo > 0 {
		b.Years(s.cfg.YearFrom, s.cfg.YearTo)
	}

	for i, seed := range seeds {
		op := query.OpAnd
		if i == 0 {
			op = query.OpNone
		}
		if err := b.AddExpanded(ctx, seed, field.AllText, s.cfg.Mode, s.cfg.TopK, op); err != nil {
			return query.Query{}, fmt.Errorf("add seed %q: %w", seed, err)
		}
	}
	return b.Build()
}
