package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gzeric2k/library-news-extract/internal/config"
	"github.com/gzeric2k/library-news-extract/internal/db"
	dbMemory "github.com/gzeric2k/library-news-extract/internal/db/memory"
	dbRedis "github.com/gzeric2k/library-news-extract/internal/db/redis"
	"github.com/gzeric2k/library-news-extract/internal/domain"
	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
	"github.com/gzeric2k/library-news-extract/internal/domain/knowledge"
	logpkg "github.com/gzeric2k/library-news-extract/internal/logger"
	"github.com/gzeric2k/library-news-extract/internal/metrics"
	"github.com/gzeric2k/library-news-extract/internal/repository/embcache"
	"github.com/gzeric2k/library-news-extract/internal/repository/expcache"
	chiTransport "github.com/gzeric2k/library-news-extract/internal/transport/chi"
	"github.com/gzeric2k/library-news-extract/internal/transport/newsbank"
	openaiTransport "github.com/gzeric2k/library-news-extract/internal/transport/openai"
	"github.com/gzeric2k/library-news-extract/internal/usecase/expansion"
	"github.com/gzeric2k/library-news-extract/internal/usecase/pipeline"
	"github.com/gzeric2k/library-news-extract/internal/usecase/relevance"
	"github.com/gzeric2k/library-news-extract/internal/version"
)

const embeddingProbeTimeout = 10 * time.Second

func main() {
	seeds := os.Args[1:]
	if len(seeds) == 0 {
		fmt.Fprintln(os.Stderr, "usage: newsxtract <seed term> [seed term ...]")
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting newsxtract",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Strings("seeds", seeds),
	)

	metrics.Register()

	kb, err := knowledge.LoadFile(cfg.Knowledge.Path)
	if err != nil {
		logger.Fatal("Failed to load knowledge base", zap.Error(err))
	}
	logger.Info("Knowledge base loaded", zap.Int("terms", kb.Len()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Embedding capability is probed once; a failed probe means the whole
	// run expands on domain and lexical signals only.
	embedder, store := buildEmbedder(ctx, cfg, logger)
	if store != nil {
		defer store.Close()
	}

	expander := buildExpander(kb, embedder, cfg, logger)
	judge := buildJudge(cfg, logger)

	scorer := relevance.New(expander, judge, relevance.Config{
		Weights: relevance.Weights{
			Keyword:  cfg.Scoring.KeywordWeight,
			Judgment: cfg.Scoring.JudgmentWeight,
		},
		MaxConcurrency: cfg.Judge.MaxConcurrency,
	}, logger)

	fetcher := newsbank.NewClient(&newsbank.Config{
		BaseURL: cfg.Archive.BaseURL,
		Timeout: time.Duration(cfg.Archive.TimeoutSec) * time.Second,
		Retry:   retryPolicy(cfg.Archive.Retry),
		Encoder: &newsbank.Encoder{
			ProductID:      cfg.Archive.ProductID,
			HideDuplicates: 2,
		},
		Parser: newsbank.NewResultsParser(),
		Logger: logger,
	}, nil)

	run := pipeline.New(expander, fetcher, scorer, pipeline.Config{
		Mode:       expand.Mode(cfg.Expansion.Mode),
		TopK:       cfg.Expansion.TopK,
		MaxResults: cfg.Archive.MaxResults,
		MaxPages:   cfg.Archive.MaxPages,
		Threshold:  cfg.Scoring.ThresholdValue(),
		Collection: cfg.Archive.Collection,
		ColLabel:   cfg.Archive.CollectionLabel,
	}, logger)

	srv := startMetricsServer(cfg, store, logger)

	result, err := run.Run(ctx, seeds)
	if err != nil {
		logger.Error("Retrieval failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(relevance.TopN(result.Decisions, -1)); err != nil {
		logger.Error("Failed to write decisions", zap.Error(err))
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during metrics server shutdown", zap.Error(err))
		}
	}
	logger.Info("Done",
		zap.Int("articles", len(result.Articles)),
		zap.Int("accepted", result.Accepted))
}

// buildEmbedder assembles the embedding chain: OpenAI -> Cached. Returns
// a nil embedder when the capability is disabled or the startup probe
// fails, plus the cache store (nil for the in-process backend without
// external state worth closing is still returned for symmetry).
func buildEmbedder(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.Embedder, db.Store) {
	if !cfg.Embedding.Enabled {
		logger.Info("Embedding capability disabled")
		return nil, nil
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	probeCtx, cancel := context.WithTimeout(ctx, embeddingProbeTimeout)
	defer cancel()
	if err := base.HealthCheck(probeCtx); err != nil {
		logger.Warn("Embedding provider unreachable, expansion degrades to domain+lexical", zap.Error(err))
		return nil, nil
	}

	var store db.Store
	switch cfg.Embedding.Cache.Backend {
	case "redis":
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Embedding.Cache.Addrs,
			Password: cfg.Embedding.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create embedding cache store", zap.Error(err))
		}
		if err := redisStore.WaitForReady(ctx, 10*time.Second); err != nil {
			logger.Fatal("Embedding cache store not ready", zap.Error(err))
		}
		store = redisStore
	default:
		store = dbMemory.NewStore()
	}

	logger.Info("Embedding capability available",
		zap.String("model", cfg.Embedding.Model),
		zap.String("cache_backend", cfg.Embedding.Cache.Backend))
	return embcache.New(base, store, metrics.EmbeddingCacheTotal, logger), store
}

func buildExpander(kb *knowledge.Base, embedder domain.Embedder, cfg config.Config, logger *zap.Logger) expansion.Expander {
	svc := expansion.New(kb, embedder, logger)
	return expcache.New(svc, cfg.Expansion.CacheSize, metrics.ExpansionCacheTotal)
}

func buildJudge(cfg config.Config, logger *zap.Logger) relevance.Judge {
	if !cfg.Judge.Enabled {
		logger.Info("Judgment oracle disabled, scoring on keyword signal only")
		return nil
	}
	return openaiTransport.NewJudge(&openaiTransport.JudgeConfig{
		APIKey:  cfg.Judge.APIKey,
		BaseURL: cfg.Judge.BaseURL,
		Model:   cfg.Judge.Model,
		Timeout: time.Duration(cfg.Judge.TimeoutSec) * time.Second,
		Logger:  logger,
	})
}

func retryPolicy(cfg config.RetryConfig) newsbank.RetryPolicy {
	if cfg.MaxAttempts <= 0 {
		return newsbank.DefaultRetryPolicy()
	}
	backoff := make([]time.Duration, len(cfg.BackoffMS))
	for i, ms := range cfg.BackoffMS {
		backoff[i] = time.Duration(ms) * time.Millisecond
	}
	return newsbank.RetryPolicy{MaxAttempts: cfg.MaxAttempts, Backoff: backoff}
}

// startMetricsServer exposes /metrics and /healthz when a port is
// configured. Returns nil when disabled.
func startMetricsServer(cfg config.Config, store db.Store, logger *zap.Logger) *http.Server {
	if cfg.Metrics.Port == 0 {
		return nil
	}

	checks := map[string]chiTransport.HealthChecker{}
	if store != nil {
		checks["embedding_cache"] = store.Ping
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      chiTransport.NewRouter(checks, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting metrics server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()
	return srv
}
