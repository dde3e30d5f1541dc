// Package llm talks to the language model that writes file and directory summaries.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Client sends one system prompt and one user message and returns the model's reply.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, content string) (string, error)
}

// Settings selects and tunes a backend.
type Settings struct {
	Provider      string
	Model         string
	BaseURL       string
	APIKey        string
	ContextWindow int
	Temperature   float64
}

// Constructor builds a Client for one provider.
type Constructor func(ctx context.Context, settings Settings) (Client, error)

const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	unknownProviderErrorFormat = "%w %q (supported: %s)"
	constructClientErrorFormat = "llm: create %s client: %w"
)

var (
	// ErrUnknownProvider indicates a provider name without a registered backend.
	ErrUnknownProvider = errors.New("llm: unknown provider")
	// ErrEmptyResponse indicates the backend answered without any text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Registry maps provider names to backend constructors.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns a Registry holding every built-in backend.
func NewRegistry() *Registry {
	registry := &Registry{constructors: map[string]Constructor{}}
	registry.Register(ProviderOllama, newOllamaClient)
	registry.Register(ProviderOpenAI, newOpenAIClient)
	registry.Register(ProviderAnthropic, newAnthropicClient)
	registry.Register(ProviderGemini, newGeminiClient)
	return registry
}

// Register binds provider to constructor, replacing any earlier binding.
func (registry *Registry) Register(provider string, constructor Constructor) {
	registry.constructors[strings.ToLower(provider)] = constructor
}

// Providers lists the registered provider names in lexical order.
func (registry *Registry) Providers() []string {
	providers := make([]string, 0, len(registry.constructors))
	for provider := range registry.constructors {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}

// NewClient builds the Client for settings.Provider.
func (registry *Registry) NewClient(ctx context.Context, settings Settings) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(settings.Provider))
	constructor, found := registry.constructors[provider]
	if !found {
		return nil, fmt.Errorf(unknownProviderErrorFormat, ErrUnknownProvider, settings.Provider, strings.Join(registry.Providers(), ", "))
	}
	client, err := constructor(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf(constructClientErrorFormat, provider, err)
	}
	return client, nil
}
