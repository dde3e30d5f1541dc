package tokenizer

import (
	"errors"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}

// TruncateString keeps the first maxTokens tokens. A multi-byte rune split by the
// cut is dropped.
func (counter openAICounter) TruncateString(input string, maxTokens int) (string, error) {
	if counter.encoding == nil {
		return "", errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	if maxTokens < 0 || len(tokenIDs) <= maxTokens {
		return input, nil
	}
	return strings.ToValidUTF8(counter.encoding.Decode(tokenIDs[:maxTokens]), ""), nil
}
