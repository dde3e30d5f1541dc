package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

type langchainClient struct {
	model       llms.Model
	temperature float64
}

func newOllamaClient(_ context.Context, settings Settings) (Client, error) {
	options := []ollama.Option{ollama.WithModel(settings.Model)}
	if settings.BaseURL != "" {
		options = append(options, ollama.WithServerURL(settings.BaseURL))
	}
	if settings.ContextWindow > 0 {
		options = append(options, ollama.WithRunnerNumCtx(settings.ContextWindow))
	}
	model, err := ollama.New(options...)
	if err != nil {
		return nil, err
	}
	return &langchainClient{model: model, temperature: settings.Temperature}, nil
}

func newOpenAIClient(_ context.Context, settings Settings) (Client, error) {
	options := []openai.Option{openai.WithModel(settings.Model)}
	if settings.BaseURL != "" {
		options = append(options, openai.WithBaseURL(settings.BaseURL))
	}
	if settings.APIKey != "" {
		options = append(options, openai.WithToken(settings.APIKey))
	}
	model, err := openai.New(options...)
	if err != nil {
		return nil, err
	}
	return &langchainClient{model: model, temperature: settings.Temperature}, nil
}

func newAnthropicClient(_ context.Context, settings Settings) (Client, error) {
	options := []anthropic.Option{anthropic.WithModel(settings.Model)}
	if settings.BaseURL != "" {
		options = append(options, anthropic.WithBaseURL(settings.BaseURL))
	}
	if settings.APIKey != "" {
		options = append(options, anthropic.WithToken(settings.APIKey))
	}
	model, err := anthropic.New(options...)
	if err != nil {
		return nil, err
	}
	return &langchainClient{model: model, temperature: settings.Temperature}, nil
}

func (client *langchainClient) Complete(ctx context.Context, systemPrompt string, content string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, content),
	}
	response, err := client.model.GenerateContent(ctx, messages, llms.WithTemperature(client.temperature))
	if err != nil {
		return "", fmt.Errorf("llm: generate content: %w", err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return response.Choices[0].Content, nil
}
