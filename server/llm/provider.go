// Package llm wraps the OpenAI-compatible completion API used for title
// generation and streaming code generation.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/landingchat/landingchat/internal/profile"
)

const (
	// Generation parameters for code completions.
	completionTemperature = 0.2
	completionMaxTokens   = 6000
)

// Config holds the provider configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	TitleModel string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://openrouter.ai/api/v1",
		APIKey:     "",
		TitleModel: "anthropic/claude-3.5-sonnet",
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// ConfigFromProfile builds a provider config from the server profile.
func ConfigFromProfile(p *profile.Profile) *Config {
	cfg := DefaultConfig()
	if p.LLMBaseURL != "" {
		cfg.BaseURL = p.LLMBaseURL
	}
	cfg.APIKey = p.LLMAPIKey
	if p.LLMTitleModel != "" {
		cfg.TitleModel = p.LLMTitleModel
	}
	return cfg
}

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// Provider performs completions against an OpenAI-compatible API.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.TitleModel == "" {
		cfg.TitleModel = "anthropic/claude-3.5-sonnet"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// GenerateTitle produces a short chat title from the system prompt and the
// user's initial request. Callers fall back to the raw prompt when the
// result is empty or an error occurs.
func (p *Provider) GenerateTitle(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		req := openai.ChatCompletionRequest{
			Model: p.config.TitleModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		}

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		result = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate title: %w", err)
	}
	return result, nil
}

// StreamChat streams a completion for the given history. Chunks arrive on
// the content channel; the channels close when the stream ends. A non-nil
// value on the error channel means the stream terminated abnormally and the
// partial content must not be treated as a finished response.
func (p *Provider) StreamChat(ctx context.Context, model string, messages []Message) (<-chan string, <-chan error) {
	contentChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		defer close(contentChan)
		defer close(errChan)

		llmMessages := make([]openai.ChatCompletionMessage, len(messages))
		for i, msg := range messages {
			llmMessages[i] = openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			}
		}

		req := openai.ChatCompletionRequest{
			Model:       model,
			Messages:    llmMessages,
			Temperature: completionTemperature,
			MaxTokens:   completionMaxTokens,
			Stream:      true,
		}

		stream, err := p.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			errChan <- fmt.Errorf("failed to start completion stream: %w", err)
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errChan <- fmt.Errorf("completion stream failed: %w", err)
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			chunk := resp.Choices[0].Delta.Content
			if chunk == "" {
				continue
			}
			select {
			case contentChan <- chunk:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return contentChan, errChan
}

// doWithRetry executes a function with exponential backoff retry.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("completion request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}
