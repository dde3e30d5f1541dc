package tokenizer

import (
	"errors"
	"fmt"
)

// Budget caps the size of a single prompt.
type Budget struct {
	Counter   Counter
	MaxTokens int
}

// FitResult describes text after it was fitted to a Budget.
type FitResult struct {
	Text      string
	Tokens    int
	Truncated bool
}

// Fit returns text unchanged when it is within the budget, otherwise its longest
// token-aligned prefix that is. A non-positive MaxTokens disables the limit.
func (budget Budget) Fit(text string) (FitResult, error) {
	if budget.Counter == nil {
		return FitResult{}, errors.New("nil tokenizer counter")
	}
	tokens, countErr := budget.Counter.CountString(text)
	if countErr != nil {
		return FitResult{}, fmt.Errorf("count tokens: %w", countErr)
	}
	if budget.MaxTokens <= 0 || tokens <= budget.MaxTokens {
		return FitResult{Text: text, Tokens: tokens}, nil
	}
	truncated, truncateErr := budget.Counter.TruncateString(text, budget.MaxTokens)
	if truncateErr != nil {
		return FitResult{}, fmt.Errorf("truncate to %d tokens: %w", budget.MaxTokens, truncateErr)
	}
	return FitResult{Text: truncated, Tokens: budget.MaxTokens, Truncated: true}, nil
}

// Exceeds reports whether text is over the budget.
func (budget Budget) Exceeds(text string) (bool, error) {
	if budget.Counter == nil {
		return false, errors.New("nil tokenizer counter")
	}
	if budget.MaxTokens <= 0 {
		return false, nil
	}
	tokens, err := budget.Counter.CountString(text)
	if err != nil {
		return false, fmt.Errorf("count tokens: %w", err)
	}
	return tokens > budget.MaxTokens, nil
}
