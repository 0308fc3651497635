package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	custom_errors "commit-digest/internal/errors"
)

// GeminiClient uses the Google Generative AI SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
	logger      *slog.Logger
}

// NewGeminiClient creates a GeminiClient. Call Close when done.
func NewGeminiClient(ctx context.Context, opts Options, logger *slog.Logger) (*GeminiClient, error) {
	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.BaseURL))
	}
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}

	temperature := float32(opts.Temperature)
	if temperature == 0 {
		temperature = 1.0
	}
	return &GeminiClient{
		client:      client,
		model:       opts.Model,
		temperature: temperature,
		maxTokens:   int32(opts.MaxTokens),
		timeout:     opts.Timeout,
		logger:      logger,
	}, nil
}

// Complete generates content for the prompt pair.
func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.SetTemperature(c.temperature)
	model.SetMaxOutputTokens(c.maxTokens)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Info("Calling Gemini", "model", c.model, "prompt_bytes", len(systemPrompt)+len(userPrompt))
	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", custom_errors.NewAnalysisError(custom_errors.KindRequest, err)
	}

	return extractGeminiText(resp)
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", custom_errors.NewAnalysisError(custom_errors.KindShape, errors.New("no candidates in response"))
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", custom_errors.NewAnalysisError(custom_errors.KindShape, errors.New("candidate has no text parts"))
	}
	return b.String(), nil
}
