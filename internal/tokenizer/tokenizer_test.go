package tokenizer

import (
	"strings"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func (testCounter) TruncateString(input string, maxTokens int) (string, error) {
	runes := []rune(input)
	if len(runes) <= maxTokens {
		return input, nil
	}
	return string(runes[:maxTokens]), nil
}

func TestBudgetFitWithinLimit(t *testing.T) {
	budget := Budget{Counter: testCounter{}, MaxTokens: 10}
	result, err := budget.Fit("hello")
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if result.Truncated || result.Text != "hello" || result.Tokens != 5 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestBudgetFitTruncates(t *testing.T) {
	budget := Budget{Counter: testCounter{}, MaxTokens: 4}
	result, err := budget.Fit("héllo world")
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if !result.Truncated || result.Text != "héll" {
		t.Fatalf("unexpected result %+v", result)
	}
	exceeds, exceedsErr := budget.Exceeds("héllo world")
	if exceedsErr != nil || !exceeds {
		t.Fatalf("expected text to exceed budget, got %v %v", exceeds, exceedsErr)
	}
}

func TestBudgetWithoutLimit(t *testing.T) {
	budget := Budget{Counter: testCounter{}}
	result, err := budget.Fit(strings.Repeat("x", 1000))
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if result.Truncated {
		t.Fatalf("expected no truncation without a limit")
	}
}

func TestBudgetRequiresCounter(t *testing.T) {
	if _, err := (Budget{MaxTokens: 1}).Fit("x"); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestNewCounterFallsBackForLocalModels(t *testing.T) {
	counter, err := NewCounter("llama3.2")
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if counter.Name() != defaultEncodingName {
		t.Fatalf("expected %s, got %s", defaultEncodingName, counter.Name())
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
	truncated, err := counter.TruncateString("hello world, this is a longer sentence", 2)
	if err != nil {
		t.Fatalf("TruncateString error: %v", err)
	}
	if truncated == "" || len(truncated) >= len("hello world, this is a longer sentence") {
		t.Fatalf("unexpected truncation %q", truncated)
	}
}
