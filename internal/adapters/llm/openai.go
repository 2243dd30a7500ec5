package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

type openAI struct {
	client openai.Client
	cfg    Config
}

// newOpenAI also serves OpenAI-compatible gateways through BaseURL.
func newOpenAI(cfg Config) *openAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	return &openAI{client: openai.NewClient(opts...), cfg: cfg}
}

func (o *openAI) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(o.cfg.MaxTokens),
	}
	if o.cfg.Temperature > 0 {
		params.Temperature = openai.Float(float64(o.cfg.Temperature))
	}

	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return finish(ProviderOpenAI, start, status, "", err)
	}
	if len(resp.Choices) == 0 {
		return finish(ProviderOpenAI, start, 200, "", nil)
	}
	return finish(ProviderOpenAI, start, 200, resp.Choices[0].Message.Content, nil)
}
