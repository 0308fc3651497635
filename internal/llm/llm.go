// Package llm sends commit analysis prompts to a completion provider.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	custom_errors "commit-digest/internal/errors"
)

// Completer returns the model's reply to a system/user prompt pair.
// Every failure is a *errors.AnalysisError.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"

	// DefaultTimeout bounds a single completion request.
	DefaultTimeout = 30 * time.Second
)

// Options configures a provider.
type Options struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type providerDefaults struct {
	model     string
	maxTokens int
}

var defaults = map[string]providerDefaults{
	ProviderDeepSeek: {model: "deepseek-chat", maxTokens: 2048},
	ProviderOpenAI:   {model: "gpt-4o-mini", maxTokens: 1000},
	ProviderGemini:   {model: "gemini-2.5-flash", maxTokens: 2048},
}

// New builds the Completer for opts.Provider. An empty provider selects DeepSeek.
func New(ctx context.Context, opts Options, logger *slog.Logger) (Completer, error) {
	if opts.Provider == "" {
		opts.Provider = ProviderDeepSeek
	}
	d, ok := defaults[opts.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider %q", opts.Provider)
	}
	if opts.APIKey == "" {
		return nil, custom_errors.ErrMissingAPIKey
	}
	if opts.Model == "" {
		logger.Warn("No LLM model given, using provider default", "provider", opts.Provider, "model", d.model)
		opts.Model = d.model
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = d.maxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	switch opts.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(opts, logger), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, opts, logger)
	default:
		return NewChatClient(opts, logger), nil
	}
}
