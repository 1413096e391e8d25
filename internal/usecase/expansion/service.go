// Package expansion turns a seed term into ranked, semantically related
// expansion candidates using the knowledge graph, lexical similarity,
// and an optional embedding provider.
package expansion

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/gzeric2k/library-news-extract/internal/domain"
	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
	"github.com/gzeric2k/library-news-extract/internal/domain/knowledge"
	"github.com/gzeric2k/library-news-extract/internal/domain/lexical"
)

// Service implements term expansion. It is a pure function of its inputs
// plus the read-only knowledge base, so it is safe for concurrent use.
type Service struct {
	kb     Knowledge
	embed  domain.Embedder // nil when the capability is absent
	logger *zap.Logger
}

// New creates an expansion service. Pass a nil embedder when the
// embedding capability is unavailable; expansion then runs on the
// domain and lexical signals only.
func New(kb Knowledge, embed domain.Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{kb: kb, embed: embed, logger: logger}
}

// Expand returns up to topK expansion candidates for seed, sorted by
// score descending with deterministic tie-breaks. Unknown seeds with no
// lexical near-neighbors yield an empty result, never an error.
func (s *Service) Expand(ctx context.Context, seed string, mode expand.Mode, topK int) ([]expand.Candidate, error) {
	seed = knowledge.Normalize(seed)
	if seed == "" || topK <= 0 {
		return nil, nil
	}
	if !mode.IsValid() {
		mode = expand.Moderate
	}

	merged := make(map[string]expand.Candidate)

	// Domain signal: direct synonyms score higher than broader concepts.
	for _, syn := range s.kb.Synonyms(seed) {
		mergeCandidate(merged, seed, expand.Candidate{Term: syn, Score: expand.SynonymScore, Source: expand.SourceDomain})
	}
	for _, rel := range s.kb.Broader(seed) {
		mergeCandidate(merged, seed, expand.Candidate{Term: rel, Score: expand.BroaderScore, Source: expand.SourceDomain})
	}

	vocab := s.kb.Vocabulary()

	// Embedding signal, when the capability is present. Any failure
	// degrades to lexical+domain; it never propagates upward.
	if s.embed != nil {
		for _, c := range s.embeddingCandidates(ctx, seed, vocab, mode) {
			mergeCandidate(merged, seed, c)
		}
	}

	// Lexical signal against the same vocabulary pool.
	for _, term := range vocab {
		score := lexical.Similarity(seed, term)
		mergeCandidate(merged, seed, expand.Candidate{Term: term, Score: score, Source: expand.SourceLexical})
	}

	candidates := make([]expand.Candidate, 0, len(merged))
	floor := mode.ScoreFloor()
	for _, c := range merged {
		if c.Score >= floor {
			candidates = append(candidates, c)
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Less(candidates[j]) })

	limit := mode.CandidateCap()
	if topK < limit {
		limit = topK
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// mergeCandidate keeps the maximum score per term; on an exact score tie
// the higher-priority source wins. The seed itself is never a candidate.
func mergeCandidate(merged map[string]expand.Candidate, seed string, c expand.Candidate) {
	c.Term = knowledge.Normalize(c.Term)
	if c.Term == "" || c.Term == seed {
		return
	}
	existing, ok := merged[c.Term]
	if !ok || c.Less(existing) {
		merged[c.Term] = c
	}
}

// embeddingCandidates embeds the seed and the vocabulary pool and keeps
// terms whose cosine similarity clears the mode floor.
func (s *Service) embeddingCandidates(ctx context.Context, seed string, vocab []string, mode expand.Mode) []expand.Candidate {
	if len(vocab) == 0 {
		return nil
	}

	texts := append([]string{seed}, vocab...)

	var res domain.BatchEmbeddingResult
	var err error
	if be, ok := s.embed.(domain.BatchEmbedder); ok {
		res, err = be.BatchEmbed(ctx, texts)
	} else {
		res, err = domain.BatchFallback(ctx, s.embed, texts)
	}
	if err != nil {
		s.logger.Warn("Embedding expansion degraded to lexical+domain", zap.String("seed", seed), zap.Error(err))
		return nil
	}
	if len(res.Embeddings) != len(texts) {
		s.logger.Warn("Embedding count mismatch, skipping embedding signal",
			zap.Int("want", len(texts)), zap.Int("got", len(res.Embeddings)))
		return nil
	}

	seedVec := res.Embeddings[0]
	floor := mode.CosineFloor()
	out := make([]expand.Candidate, 0, len(vocab))
	for i, term := range vocab {
		cos := domain.Cosine(seedVec, res.Embeddings[i+1])
		if cos >= floor {
			out = append(out, expand.Candidate{Term: term, Score: cos, Source: expand.SourceEmbedding})
		}
	}
	return out
}
