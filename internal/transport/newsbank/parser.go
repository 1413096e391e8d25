package newsbank

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gzeric2k/library-news-extract/internal/domain"
)

// JSONResultsParser decodes the JSON result-page payload served by the
// archive's search gateway. HTML result pages are handled by an external
// collaborator implementing the same ResultsParser contract.
type JSONResultsParser struct{}

// NewResultsParser creates the default JSON results parser.
func NewResultsParser() *JSONResultsParser {
	return &JSONResultsParser{}
}

type resultsPayload struct {
	Articles []struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Preview   string `json:"preview"`
		Author    string `json:"author"`
		Source    string `json:"source"`
		Published string `json:"published"`
	} `json:"articles"`
	HasNext bool `json:"has_next"`
}

// Parse implements ResultsParser.
func (p *JSONResultsParser) Parse(r io.Reader, page int) ([]domain.ArticleMetadata, bool, error) {
	var payload resultsPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode results page %d: %w", page, err)
	}

	pageIndex := page - 1
	if pageIndex < 0 {
		pageIndex = 0
	}
	articles := make([]domain.ArticleMetadata, len(payload.Articles))
	for i, a := range payload.Articles {
		articles[i] = domain.ArticleMetadata{
			ID:        a.ID,
			Title:     a.Title,
			Preview:   a.Preview,
			Author:    a.Author,
			Source:    a.Source,
			Published: parseDate(a.Published),
			PageIndex: pageIndex,
			Position:  i,
		}
	}
	return articles, payload.HasNext, nil
}

// parseDate tolerates the two date shapes the gateway emits. An
// unparseable date yields the zero time rather than failing the page.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
