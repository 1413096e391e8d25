package openai

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/gzeric2k/library-news-extract/internal/domain"
	"github.com/gzeric2k/library-news-extract/internal/metrics"
)

// Judge scores article relevance through an OpenAI-compatible chat
// endpoint. The model is asked for an integer 0-100; anything it says
// around the number is tolerated.
type Judge struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// JudgeConfig holds the judgment provider settings.
type JudgeConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewJudge creates an OpenAI-compatible judgment provider.
func NewJudge(cfg *JudgeConfig) *Judge {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Judge{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

const judgeSystemPrompt = `You rate how relevant a news article is to a research topic.
Respond with a single integer from 0 (unrelated) to 100 (directly about the topic).
Do not explain.`

// Judge returns the model's relevance verdict for an article, normalized
// to [0, 1]. Every failure mode wraps domain.ErrJudgeUnavailable so the
// scorer can fall back to the keyword signal alone.
func (j *Judge) Judge(ctx context.Context, topic string, title string, preview string) (float64, error) {
	user := fmt.Sprintf("Topic: %s\n\nHeadline: %s\n\nExcerpt: %s", topic, title, preview)

	start := time.Now()
	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       j.model,
		Temperature: j.temperature,
		MaxTokens:   8,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: judgeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	duration := time.Since(start)

	if err != nil {
		metrics.JudgeRequestsTotal.WithLabelValues(j.model, "error").Inc()
		return 0, fmt.Errorf("judgment request failed: %v: %w", err, domain.ErrJudgeUnavailable)
	}
	if len(resp.Choices) == 0 {
		metrics.JudgeRequestsTotal.WithLabelValues(j.model, "error").Inc()
		return 0, fmt.Errorf("empty judgment response: %w", domain.ErrJudgeUnavailable)
	}

	score, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.JudgeRequestsTotal.WithLabelValues(j.model, "unparseable").Inc()
		return 0, err
	}

	metrics.JudgeRequestsTotal.WithLabelValues(j.model, "success").Inc()
	metrics.JudgeRequestDuration.WithLabelValues(j.model).Observe(duration.Seconds())
	return score, nil
}

var verdictRe = regexp.MustCompile(`\d+`)

// parseVerdict extracts the first integer from the model's reply and
// normalizes it to [0, 1]. Values above 100 are clamped.
func parseVerdict(reply string) (float64, error) {
	match := verdictRe.FindString(strings.TrimSpace(reply))
	if match == "" {
		return 0, fmt.Errorf("no score in judgment reply %q: %w", reply, domain.ErrJudgeUnavailable)
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("judgment reply %q: %v: %w", reply, err, domain.ErrJudgeUnavailable)
	}
	if n > 100 {
		n = 100
	}
	return float64(n) / 100, nil
}
