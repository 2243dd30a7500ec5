package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

type gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func newGemini(ctx context.Context, cfg Config) (*gemini, error) {
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	gc := &genai.GenerateContentConfig{MaxOutputTokens: int32(cfg.MaxTokens)}
	if cfg.Temperature > 0 {
		gc.Temperature = genai.Ptr(cfg.Temperature)
	}
	return &gemini{client: client, model: cfg.Model, config: gc}, nil
}

func (g *gemini) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		status := 0
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.Code
		}
		return finish(ProviderGemini, start, status, "", err)
	}
	return finish(ProviderGemini, start, 200, resp.Text(), nil)
}
