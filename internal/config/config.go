// Package config loads the newsxtract configuration from YAML by
// environment name, with ${VAR} expansion, defaults, and validation.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gzeric2k/library-news-extract/internal/domain/expand"
)

// Config holds the full pipeline configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Expansion ExpansionConfig `yaml:"expansion"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Judge     JudgeConfig     `yaml:"judge"`
	Scoring   ScoringConfig   `yaml:"scoring"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: env-determined)
}

// MetricsConfig holds the metrics endpoint settings.
type MetricsConfig struct {
	Port int `yaml:"port"` // 0 = metrics endpoint disabled
}

// ArchiveConfig holds the news archive connection settings.
type ArchiveConfig struct {
	BaseURL         string      `yaml:"base_url"`
	ProductID       string      `yaml:"product_id"`
	Collection      string      `yaml:"collection"`
	CollectionLabel string      `yaml:"collection_label"`
	MaxResults      int         `yaml:"max_results"`
	MaxPages        int         `yaml:"max_pages"`
	TimeoutSec      int         `yaml:"timeout_sec"`
	Retry           RetryConfig `yaml:"retry"`
}

// RetryConfig holds the fetch retry policy.
type RetryConfig struct {
	MaxAttempts int   `yaml:"max_attempts"`
	BackoffMS   []int `yaml:"backoff_ms"`
}

// KnowledgeConfig holds the knowledge base source.
type KnowledgeConfig struct {
	Path string `yaml:"path"`
}

// ExpansionConfig holds term expansion settings.
type ExpansionConfig struct {
	Mode      string `yaml:"mode"` // conservative, moderate, aggressive
	TopK      int    `yaml:"top_k"`
	CacheSize int    `yaml:"cache_size"`
}

// EmbeddingConfig holds the optional embedding provider settings.
type EmbeddingConfig struct {
	Enabled    bool              `yaml:"enabled"`
	APIKey     string            `yaml:"api_key"`
	BaseURL    string            `yaml:"base_url"`
	Model      string            `yaml:"model"`
	Dimensions int               `yaml:"dimensions"`
	Cache      EmbeddingCacheCfg `yaml:"cache"`
}

// EmbeddingCacheCfg holds the embedding cache backend settings.
type EmbeddingCacheCfg struct {
	Backend  string   `yaml:"backend"` // memory, redis (default: memory)
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
}

// JudgeConfig holds the optional judgment oracle settings.
type JudgeConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	MaxConcurrency int    `yaml:"max_concurrency"`
}

// ScoringConfig holds relevance scoring settings. Threshold is a pointer
// so an explicit 0 (accept everything) is distinguishable from unset.
type ScoringConfig struct {
	Threshold      *float64 `yaml:"threshold"`
	KeywordWeight  float64  `yaml:"keyword_weight"`
	JudgmentWeight float64  `yaml:"judgment_weight"`
}

// ThresholdValue returns the acceptance threshold, defaulting when unset.
func (s ScoringConfig) ThresholdValue() float64 {
	if s.Threshold == nil {
		return 0.4
	}
	return *s.Threshold
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Archive.MaxResults <= 0 {
		c.Archive.MaxResults = 60
	}
	if c.Archive.MaxPages <= 0 {
		c.Archive.MaxPages = 5
	}
	if c.Archive.TimeoutSec <= 0 {
		c.Archive.TimeoutSec = 30
	}
	if c.Archive.Retry.MaxAttempts <= 0 {
		c.Archive.Retry.MaxAttempts = 3
	}
	if len(c.Archive.Retry.BackoffMS) == 0 {
		c.Archive.Retry.BackoffMS = []int{500, 2000, 5000}
	}
	if c.Expansion.Mode == "" {
		c.Expansion.Mode = string(expand.Moderate)
	}
	if c.Expansion.TopK <= 0 {
		c.Expansion.TopK = 5
	}
	if c.Expansion.CacheSize <= 0 {
		c.Expansion.CacheSize = 512
	}
	if c.Embedding.Cache.Backend == "" {
		c.Embedding.Cache.Backend = "memory"
	}
	if c.Judge.TimeoutSec <= 0 {
		c.Judge.TimeoutSec = 20
	}
	if c.Judge.MaxConcurrency <= 0 {
		c.Judge.MaxConcurrency = 4
	}
	if c.Scoring.Threshold == nil {
		def := 0.4
		c.Scoring.Threshold = &def
	}
	if c.Scoring.KeywordWeight == 0 && c.Scoring.JudgmentWeight == 0 {
		c.Scoring.KeywordWeight = 0.5
		c.Scoring.JudgmentWeight = 0.5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Archive.BaseURL == "" {
		return fmt.Errorf("archive.base_url is required")
	}
	if c.Knowledge.Path == "" {
		return fmt.Errorf("knowledge.path is required")
	}
	if !expand.Mode(c.Expansion.Mode).IsValid() {
		return fmt.Errorf("expansion.mode must be conservative, moderate, or aggressive, got %q", c.Expansion.Mode)
	}
	if t := c.Scoring.ThresholdValue(); t < 0 || t > 1 {
		return fmt.Errorf("scoring.threshold must be between 0 and 1, got %v", t)
	}
	if sum := c.Scoring.KeywordWeight + c.Scoring.JudgmentWeight; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	switch c.Embedding.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("embedding.cache.backend must be \"memory\" or \"redis\", got %q", c.Embedding.Cache.Backend)
	}
	if c.Embedding.Cache.Backend == "redis" && len(c.Embedding.Cache.Addrs) == 0 {
		return fmt.Errorf("embedding.cache.addrs is required for the redis backend")
	}
	if c.Embedding.Enabled && c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required when embedding is enabled")
	}
	if c.Judge.Enabled && c.Judge.Model == "" {
		return fmt.Errorf("judge.model is required when judge is enabled")
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
