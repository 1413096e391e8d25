package newsbank

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gzeric2k/library-news-extract/internal/domain"
	"github.com/gzeric2k/library-news-extract/internal/domain/search/query"
	"github.com/gzeric2k/library-news-extract/internal/metrics"
)

// ResultsParser extracts article metadata from a result-page body.
// The HTML/JSON shape of the archive is owned by the parsing collaborator,
// not by this client.
type ResultsParser interface {
	Parse(r io.Reader, page int) (articles []domain.ArticleMetadata, hasNext bool, err error)
}

// RetryPolicy bounds fetch retries for transient failures.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     []time.Duration
}

// DefaultRetryPolicy matches the archive's observed rate-limit windows.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{500 * time.Millisecond, 2 * time.Second, 5 * time.Second},
	}
}

// wait returns the backoff before the given retry (1-based), clamping to
// the last configured step.
func (p RetryPolicy) wait(retry int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	if retry > len(p.Backoff) {
		retry = len(p.Backoff)
	}
	return p.Backoff[retry-1]
}

// Config holds the archive client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryPolicy
	Encoder *Encoder
	Parser  ResultsParser
	Logger  *zap.Logger
}

// Client fetches result pages from the archive. Session handling
// (cookies, proxy auth) is the responsibility of the http.Client jar
// configured by the caller.
type Client struct {
	baseURL string
	http    *http.Client
	encoder *Encoder
	parser  ResultsParser
	retry   RetryPolicy
	logger  *zap.Logger
}

// NewClient creates an archive pagination client.
func NewClient(cfg *Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	enc := cfg.Encoder
	if enc == nil {
		enc = NewEncoder()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		encoder: enc,
		parser:  cfg.Parser,
		retry:   retry,
		logger:  logger,
	}
}

// Serialize renders the transport form of a query, exposed so callers
// can log or dedup on it.
func (c *Client) Serialize(q query.Query) string {
	return c.encoder.Encode(q)
}

// FetchPage retrieves one result page, retrying transient failures per
// the retry policy. Non-transient failures (auth, parse) return
// immediately as a classified FetchError.
func (c *Client) FetchPage(ctx context.Context, q query.Query, page int) ([]domain.ArticleMetadata, bool, error) {
	url := fmt.Sprintf("%s?%s&page=%d", c.baseURL, c.encoder.Encode(q), page)

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.FetchRetriesTotal.Inc()
			c.logger.Info("Retrying archive fetch",
				zap.Int("page", page), zap.Int("attempt", attempt), zap.Error(lastErr))
			if err := sleepCtx(ctx, c.retry.wait(attempt-1)); err != nil {
				return nil, false, domain.NewFetchError(domain.FetchTimeout, page, err)
			}
		}

		articles, hasNext, err := c.fetchOnce(ctx, url, page)
		if err == nil {
			metrics.FetchPagesTotal.WithLabelValues("success").Inc()
			return articles, hasNext, nil
		}

		lastErr = err
		var fe *domain.FetchError
		if errors.As(err, &fe) {
			metrics.FetchPagesTotal.WithLabelValues(string(fe.Kind)).Inc()
			if !fe.IsRetryable() {
				return nil, false, err
			}
		}
	}
	return nil, false, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string, page int) ([]domain.ArticleMetadata, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, domain.NewFetchError(domain.FetchParseError, page, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, domain.NewFetchError(domain.FetchTimeout, page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, domain.NewFetchError(domain.FetchAuthRequired, page,
			fmt.Errorf("archive returned %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, false, domain.NewFetchError(domain.FetchRateLimited, page,
			fmt.Errorf("archive returned %d", resp.StatusCode))
	case resp.StatusCode >= 500:
		// Transient server trouble, handled like a timeout for retry purposes.
		return nil, false, domain.NewFetchError(domain.FetchTimeout, page,
			fmt.Errorf("archive returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, false, domain.NewFetchError(domain.FetchParseError, page,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	articles, hasNext, err := c.parser.Parse(resp.Body, page)
	if err != nil {
		return nil, false, domain.NewFetchError(domain.FetchParseError, page, err)
	}
	return articles, hasNext, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
