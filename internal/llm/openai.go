package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	custom_errors "commit-digest/internal/errors"
)

// OpenAIClient uses the official OpenAI SDK.
type OpenAIClient struct {
	cli         openai.Client
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// NewOpenAIClient creates an OpenAIClient. SDK retries are disabled so that a
// call is attempted exactly once.
func NewOpenAIClient(opts Options, logger *slog.Logger) *OpenAIClient {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(opts.Timeout),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 1.0
	}
	return &OpenAIClient{
		cli:         openai.NewClient(reqOpts...),
		model:       opts.Model,
		temperature: temperature,
		maxTokens:   opts.MaxTokens,
		logger:      logger,
	}
}

// Complete sends one chat completion request through the SDK.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.logger.Info("Calling OpenAI", "model", c.model, "prompt_bytes", len(systemPrompt)+len(userPrompt))

	resp, err := c.cli.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", custom_errors.NewAnalysisError(custom_errors.KindStatus, fmt.Errorf("status %d: %w", apiErr.StatusCode, err))
		}
		return "", custom_errors.NewAnalysisError(custom_errors.KindRequest, err)
	}

	if len(resp.Choices) == 0 {
		return "", custom_errors.NewAnalysisError(custom_errors.KindShape, errors.New("no completion choice"))
	}
	return resp.Choices[0].Message.Content, nil
}
