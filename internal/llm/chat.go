package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	custom_errors "commit-digest/internal/errors"
)

// DefaultChatURL is the DeepSeek chat completions endpoint.
const DefaultChatURL = "https://api.deepseek.com/chat/completions"

// ChatClient talks to an OpenAI-compatible chat completions endpoint over plain HTTP.
type ChatClient struct {
	apiKey      string
	model       string
	url         string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *slog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewChatClient creates a ChatClient. An empty BaseURL selects DeepSeek.
func NewChatClient(opts Options, logger *slog.Logger) *ChatClient {
	url := opts.BaseURL
	if url == "" {
		url = DefaultChatURL
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 1.0
	}
	return &ChatClient{
		apiKey:      opts.APIKey,
		model:       opts.Model,
		url:         url,
		temperature: temperature,
		maxTokens:   opts.MaxTokens,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		logger:      logger,
	}
}

// Complete sends one chat completion request and returns the first choice's content.
func (c *ChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", custom_errors.NewAnalysisError(custom_errors.KindRequest, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", custom_errors.NewAnalysisError(custom_errors.KindRequest, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Title", "Commit Digest Analyzer")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", custom_errors.NewAnalysisError(custom_errors.KindRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", custom_errors.NewAnalysisError(custom_errors.KindRequest, fmt.Errorf("read response: %w", err))
	}
	c.logger.Info("Called LLM", "model", c.model, "request_bytes", len(body), "response_bytes", len(respBody), "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", custom_errors.NewAnalysisError(custom_errors.KindStatus, fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", custom_errors.NewAnalysisError(custom_errors.KindParse, fmt.Errorf("%w: %s", err, string(respBody)))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return "", custom_errors.NewAnalysisError(custom_errors.KindShape, fmt.Errorf("no completion choice in %s", string(respBody)))
	}

	return *parsed.Choices[0].Message.Content, nil
}
