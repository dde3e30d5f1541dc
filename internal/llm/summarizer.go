package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	fileSystemPrompt = `You are a professional software engineer. You can quickly understand the essential parts of files that are required to build software.
You are given a file in the following markdown format:
` + "`filename`:\n```\nfile contents ...\n```" + `

Based on the file markdown, write down the most important components of this file. Your summary should be written in markdown format so that it can be used in a README.md file.
The summary should have at most 5 major bullet points describing the most important features of the file. Do NOT include any code in your summary, simply describe what the file does.

Example of Flow:

Given the following file
` + "`main.py`:\n```\nimport utils\n\nif __name__ == \"__main__\":\n    utils.spin_up()\n    print(\"hello world\")\n```" + `

A valid output would look like
- the main module uses the utils module to spin up some processes
- after spin up the main prints "hello world"`

	directorySystemPrompt = `You are a professional software engineer. You can quickly understand code files and other files that are required to build software.
You are given a README.md file for a specified directory.

Your goal is to generate a ONE SENTENCE description of the directory readme file that captures the essence of all the files in the directory.
The generated sentence should be in plaintext.`

	summarizeFileErrorFormat      = "summarize file: %w"
	summarizeDirectoryErrorFormat = "summarize directory: %w"
)

// Summarizer issues the two summary requests autodoc makes.
type Summarizer struct {
	client Client
}

// NewSummarizer wraps client.
func NewSummarizer(client Client) *Summarizer {
	return &Summarizer{client: client}
}

// SummarizeFile returns a markdown bullet summary of the fenced file prompt.
func (summarizer *Summarizer) SummarizeFile(ctx context.Context, filePrompt string) (string, error) {
	response, err := summarizer.client.Complete(ctx, fileSystemPrompt, filePrompt)
	if err != nil {
		return "", fmt.Errorf(summarizeFileErrorFormat, err)
	}
	summary := strings.TrimSpace(response)
	if summary == "" {
		return "", fmt.Errorf(summarizeFileErrorFormat, ErrEmptyResponse)
	}
	return summary, nil
}

// SummarizeDirectory condenses the README text written for a directory into a
// single line.
func (summarizer *Summarizer) SummarizeDirectory(ctx context.Context, readmeText string) (string, error) {
	response, err := summarizer.client.Complete(ctx, directorySystemPrompt, readmeText)
	if err != nil {
		return "", fmt.Errorf(summarizeDirectoryErrorFormat, err)
	}
	summary := strings.Join(strings.Fields(response), " ")
	if summary == "" {
		return "", fmt.Errorf(summarizeDirectoryErrorFormat, ErrEmptyResponse)
	}
	return summary, nil
}
