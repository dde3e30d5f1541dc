package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type geminiClient struct {
	cli         *genai.Client
	model       string
	temperature float32
}

func newGeminiClient(ctx context.Context, settings Settings) (Client, error) {
	config := &genai.ClientConfig{APIKey: settings.APIKey, Backend: genai.BackendGeminiAPI}
	if settings.BaseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: settings.BaseURL}
	}
	cli, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, err
	}
	return &geminiClient{cli: cli, model: settings.Model, temperature: float32(settings.Temperature)}, nil
}

func (client *geminiClient) Complete(ctx context.Context, systemPrompt string, content string) (string, error) {
	response, err := client.cli.Models.GenerateContent(ctx, client.model,
		genai.Text(content),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr(client.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("llm: gemini generate content: %w", err)
	}
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}
