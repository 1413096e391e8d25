package domain

// Scoring signal names used in the decision breakdown.
const (
	SignalKeyword  = "keyword"
	SignalJudgment = "judgment"
)

// SignalScore is one signal's contribution to a relevance decision.
type SignalScore struct {
	// Raw is the signal's own [0,1] value before weighting.
	Raw float64
	// Weighted is Raw multiplied by the signal's configured weight.
	Weighted float64
	// Available is false when the signal's backing capability was
	// absent or failed and the scorer degraded around it.
	Available bool
}

// RelevanceDecision is the accept/reject verdict for one article against
// the search intent. Immutable once produced.
type RelevanceDecision struct {
	ArticleID string
	// Combined is the weighted total score, clamped to [0,1].
	Combined float64
	Accepted bool
	// Breakdown maps signal name to its contribution, for auditability.
	Breakdown map[string]SignalScore
	// Position is carried over from the article for stable ranking.
	Position int
}
