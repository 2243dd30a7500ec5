package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travela/internal/adapters/observability"
	"travela/internal/domain"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var defaultModels = map[string]string{
	ProviderGemini:    "gemini-2.0-flash",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
}

// ErrEmptyCompletion is returned when a provider answers without any text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int64
}

// New builds the Generator for cfg.Provider. Aliases such as "google" or
// "open_ai" are accepted.
func New(ctx context.Context, cfg Config) (domain.Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: api key required")
	}
	p := normalizeProvider(cfg.Provider)
	if cfg.Model == "" {
		cfg.Model = defaultModels[p]
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	switch p {
	case ProviderGemini:
		return newGemini(ctx, cfg)
	case ProviderOpenAI:
		return newOpenAI(cfg), nil
	case ProviderAnthropic:
		return newAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

func normalizeProvider(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	switch t {
	case "", "google", "google-genai", "genai":
		return ProviderGemini
	case "open-ai", "openai-compatible":
		return ProviderOpenAI
	case "claude":
		return ProviderAnthropic
	}
	return t
}

// finish records the call and turns blank output into ErrEmptyCompletion.
func finish(provider string, start time.Time, status int, text string, err error) (string, error) {
	if err != nil {
		observability.ObserveExternal("llm", provider, status, time.Since(start))
		return "", fmt.Errorf("%s: %w", provider, err)
	}
	observability.ObserveExternal("llm", provider, 200, time.Since(start))
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
