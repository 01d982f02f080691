// Package ai implements event classifiers backed by a chat-completion model or by a
// local keyword table.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/inkinno/projects/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMClassifier calls an OpenAI-compatible chat completion endpoint once per event.
type LLMClassifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewLLMClassifier(cfg LLMConfig) (*LLMClassifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm classifier requires an api key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm classifier requires a model")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &LLMClassifier{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (c *LLMClassifier) Classify(ctx context.Context, content string) (domain.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(content)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.2,
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("%w: model call failed: %v", domain.ErrClassification, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Classification{}, fmt.Errorf("%w: model returned no choices", domain.ErrClassification)
	}
	return ParseClassification(resp.Choices[0].Message.Content)
}
