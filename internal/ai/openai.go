package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"news-reporter/internal/retry"
)

const (
	// SummaryLength is the approximate summary size in characters.
	SummaryLength = 250
	maxInputRunes = 4000
	maxTokens     = 150
)

// OpenAIClient summarizes articles with the Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	retry  *retry.Policy
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
	Retry   *retry.Policy
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cc), model: cfg.Model, retry: cfg.Retry}, nil
}

// SummarizeItem returns a summary of roughly SummaryLength characters in the given language.
func (o *OpenAIClient) SummarizeItem(ctx context.Context, title, content, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	content = strings.TrimSpace(content)
	if content == "" {
		content = title
	}
	if r := []rune(content); len(r) > maxInputRunes {
		content = string(r[:maxInputRunes])
	}

	sys := fmt.Sprintf("Summarize the following news article in %s in approximately %d characters. "+
		"Return plain text only, no preamble.", langOrDefault(language), SummaryLength)
	user := fmt.Sprintf("Title: %s\nContent: %s", title, content)
	out, err := retry.Value(ctx, o.retry, "openai:summarize", func(ctx context.Context) (string, error) {
		return o.create(ctx, sys, user)
	})
	if err != nil {
		slog.Warn("openai: summarize item error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func langOrDefault(lang string) string {
	switch l := strings.ToLower(strings.TrimSpace(lang)); l {
	case "", "en":
		return "English"
	case "es":
		return "Spanish"
	case "fr":
		return "French"
	case "de":
		return "German"
	case "it":
		return "Italian"
	case "pt":
		return "Portuguese"
	default:
		return lang
	}
}
