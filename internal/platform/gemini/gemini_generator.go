package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/uranai-api/internal/config"
	"github.com/phrazzld/uranai-api/internal/generation"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// contentGenerator is the part of *genai.Models the generator uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger *slog.Logger
	config config.LLMConfig
	models contentGenerator

	// wait sleeps between retries; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error

	rngMu sync.Mutex
	rng   *rand.Rand
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator from the LLM configuration.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newGenerator(client.Models, logger, cfg), nil
}

func newGenerator(models contentGenerator, logger *slog.Logger, cfg config.LLMConfig) *GeminiGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiGenerator{
		logger: logger.With(slog.String("component", "gemini_generator"), slog.String("model", cfg.ModelName)),
		config: cfg,
		models: models,
		wait:   sleep,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func validateConfig(cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	return nil
}

// Generate implements generation.Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", generation.ErrEmptyPrompt
	}
	log := logger.FromContextOrDefault(ctx, g.logger)

	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		log.Warn("invalid max retries value, using default", slog.Int("max_retries", defaultMaxRetries))
		maxRetries = defaultMaxRetries
	}
	baseDelay := g.config.RetryDelay()
	if baseDelay <= 0 {
		baseDelay = defaultRetryDelay
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(g.config.Temperature)),
	}
	if systemInstruction != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	for attempt := 0; ; attempt++ {
		attemptLog := log.With(slog.Int("attempt", attempt+1), slog.Int("max_attempts", maxRetries+1))
		attemptLog.Debug("making Gemini API call")

		resp, err := g.models.GenerateContent(ctx, g.config.ModelName, contents, genConfig)
		var text string
		if err == nil {
			text, err = extractText(resp)
		} else {
			err = fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}

		if err == nil {
			attemptLog.Info("Gemini API call successful", slog.Int("response_length", len(text)))
			return text, nil
		}

		if generation.IsPermanent(err) {
			attemptLog.Warn("permanent error occurred, not retrying", slog.String("error", err.Error()))
			return "", err
		}

		if attempt >= maxRetries {
			attemptLog.Warn("maximum retry attempts reached", slog.String("error", err.Error()))
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		delay := g.backoff(baseDelay, attempt)
		attemptLog.Info("retrying after delay",
			slog.String("error", err.Error()),
			slog.Duration("delay", delay))

		if err := g.wait(ctx, delay); err != nil {
			attemptLog.Warn("API call cancelled during retry delay", slog.String("ctx_err", err.Error()))
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

// backoff is base * 2^attempt scaled by a jitter factor in [0.5, 1.0).
func (g *GeminiGenerator) backoff(base time.Duration, attempt int) time.Duration {
	g.rngMu.Lock()
	jitter := 0.5 + g.rng.Float64()*0.5
	g.rngMu.Unlock()

	return time.Duration(float64(base) * math.Pow(2, float64(attempt)) * jitter)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)",
				generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: response has no text", generation.ErrInvalidResponse)
	}
	return sb.String(), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
