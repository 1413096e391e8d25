package domain

import "time"

// ArticleMetadata is one result row from the archive's result list,
// as produced by the pagination collaborator. Consumed read-only.
type ArticleMetadata struct {
	ID        string
	Title     string
	Preview   string
	Author    string
	Source    string
	Published time.Time
	// PageIndex is the zero-based result-page the article came from;
	// together with the row order it gives the stable original position.
	PageIndex int
	// Position is the zero-based row index within the whole scan,
	// used as the deterministic tie-break when ranking.
	Position int
}
