// Package expand holds the value types of the term-expansion pipeline:
// expansion candidates, their originating sources, and expansion modes.
package expand

// Source identifies which signal proposed an expansion candidate.
type Source string

// Candidate sources, in descending tie-break priority.
const (
	SourceDomain    Source = "domain"
	SourceEmbedding Source = "embedding"
	SourceLexical   Source = "lexical"
)

// priority is used for deterministic ordering when scores tie.
func (s Source) priority() int {
	switch s {
	case SourceDomain:
		return 3
	case SourceEmbedding:
		return 2
	case SourceLexical:
		return 1
	default:
		return 0
	}
}

// Candidate is a term proposed as related to a seed, with a confidence
// score in [0,1]. Produced transiently per expansion; not persisted.
type Candidate struct {
	Term   string
	Score  float64
	Source Source
}

// Less orders candidates by score descending, then source priority
// descending, then term ascending. The full ordering is deterministic so
// repeated expansions of the same seed are byte-identical.
func (c Candidate) Less(other Candidate) bool {
	if c.Score != other.Score {
		return c.Score > other.Score
	}
	if p, q := c.Source.priority(), other.Source.priority(); p != q {
		return p > q
	}
	return c.Term < other.Term
}

// Domain-sourced candidate scores.
const (
	SynonymScore = 0.9
	BroaderScore = 0.6
)

// Mode is the expansion aggressiveness.
type Mode string

// Expansion modes.
const (
	Conservative Mode = "conservative"
	Moderate     Mode = "moderate"
	Aggressive   Mode = "aggressive"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Conservative || m == Moderate || m == Aggressive
}

// ScoreFloor returns the minimum candidate score the mode admits.
func (m Mode) ScoreFloor() float64 {
	switch m {
	case Conservative:
		return 0.6
	case Aggressive:
		return 0.25
	default:
		return 0.4
	}
}

// CandidateCap returns the maximum number of candidates the mode keeps.
func (m Mode) CandidateCap() int {
	switch m {
	case Conservative:
		return 3
	case Aggressive:
		return 8
	default:
		return 5
	}
}

// CosineFloor returns the minimum cosine similarity for an
// embedding-sourced candidate. Sits above the mode's overall score
// floor so an embedding candidate never enters below it.
func (m Mode) CosineFloor() float64 {
	switch m {
	case Conservative:
		return 0.75
	case Aggressive:
		return 0.45
	default:
		return 0.6
	}
}
