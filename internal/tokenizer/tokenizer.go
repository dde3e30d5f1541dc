// Package tokenizer measures prompts in model tokens and trims them to a budget.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content and cuts text at a token boundary.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
	TruncateString(input string, maxTokens int) (string, error)
}

const (
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for model. Models tiktoken does not know, which
// includes every local ollama model, are measured with cl100k_base.
func NewCounter(model string) (Counter, error) {
	lowerModel := strings.ToLower(strings.TrimSpace(model))
	if isOpenAIModel(lowerModel) {
		encoding, err := tiktoken.EncodingForModel(lowerModel)
		if err == nil && encoding != nil {
			return openAICounter{encoding: encoding, name: lowerModel}, nil
		}
	}
	encoding, err := tiktoken.GetEncoding(defaultEncodingName)
	if err != nil {
		return nil, fmt.Errorf("initialize default tokenizer: %w", err)
	}
	return openAICounter{encoding: encoding, name: defaultEncodingName}, nil
}

func isOpenAIModel(model string) bool {
	prefixes := []string{
		"gpt-",
		"o1",
		"o3",
		"text-embedding",
		"davinci",
		"curie",
		"babbage",
		"ada",
		"code-",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
