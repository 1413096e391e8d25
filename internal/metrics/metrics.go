// Package metrics defines the Prometheus collectors for the retrieval
// pipeline. Registration is explicit from main, no init().
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	ExpansionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsxtract",
			Name:      "expansion_cache_total",
			Help:      "Expansion cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsxtract",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsxtract",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsxtract",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsxtract",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"},
	)

	JudgeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsxtract",
			Name:      "judge_requests_total",
			Help:      "Total judgment oracle requests",
		},
		[]string{"model", "status"},
	)

	JudgeRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsxtract",
			Name:      "judge_request_duration_seconds",
			Help:      "Judgment oracle request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	FetchPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsxtract",
			Name:      "fetch_pages_total",
			Help:      "Archive result pages fetched",
		},
		[]string{"status"}, // "success" / fetch kind
	)

	FetchRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "newsxtract",
			Name:      "fetch_retries_total",
			Help:      "Archive fetch attempts that were retried",
		},
	)

	ArticlesScoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsxtract",
			Name:      "articles_scored_total",
			Help:      "Articles scored by the relevance pipeline",
		},
		[]string{"verdict"}, // "accepted" / "rejected"
	)
)

var registered bool

// Register registers all pipeline metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(ExpansionCacheTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(JudgeRequestsTotal)
	prometheus.MustRegister(JudgeRequestDuration)
	prometheus.MustRegister(FetchPagesTotal)
	prometheus.MustRegister(FetchRetriesTotal)
	prometheus.MustRegister(ArticlesScoredTotal)
	registered = true
}
