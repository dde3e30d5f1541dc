package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/autodoc/internal/commands"
	"github.com/temirov/autodoc/internal/config"
	"github.com/temirov/autodoc/internal/llm"
	"github.com/temirov/autodoc/internal/tokenizer"
)

const (
	stubFileSummary      = "Loads the sample data."
	stubDirectorySummary = "Sample repository for the command tests."
)

type stubSummarizer struct {
	fileCalls      int
	directoryCalls int
}

func (summarizer *stubSummarizer) SummarizeFile(context.Context, string) (string, error) {
	summarizer.fileCalls++
	return stubFileSummary, nil
}

func (summarizer *stubSummarizer) SummarizeDirectory(context.Context, string) (string, error) {
	summarizer.directoryCalls++
	return stubDirectorySummary, nil
}

type stubCounter struct{}

func (stubCounter) Name() string { return "stub" }

func (stubCounter) CountString(input string) (int, error) {
	return len([]rune(input)), nil
}

func (stubCounter) TruncateString(input string, maxTokens int) (string, error) {
	runes := []rune(input)
	if len(runes) <= maxTokens {
		return input, nil
	}
	return string(runes[:maxTokens]), nil
}

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

type commandHarness struct {
	summarizer *stubSummarizer
	copier     *recordingCopier
	configPath string
	memoryPath string
}

func newCommandHarness(t *testing.T) *commandHarness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	memoryPath := filepath.Join(t.TempDir(), "memory")
	configPath := filepath.Join(t.TempDir(), "autodoc.yaml")
	configBody := "memory_location: " + memoryPath + "\nllm:\n  provider: ollama\n  model: stub\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configBody), 0o600))
	return &commandHarness{
		summarizer: &stubSummarizer{},
		copier:     &recordingCopier{},
		configPath: configPath,
		memoryPath: memoryPath,
	}
}

func (harness *commandHarness) dependencies() Dependencies {
	return Dependencies{
		NewSummarizer: func(context.Context, config.LLMSettings) (commands.Summarizer, error) {
			return harness.summarizer, nil
		},
		NewCounter: func(string) (tokenizer.Counter, error) {
			return stubCounter{}, nil
		},
		Copier: harness.copier,
		NewLogger: func(bool) (*zap.Logger, error) {
			return zap.NewNop(), nil
		},
	}
}

func (harness *commandHarness) run(t *testing.T, arguments ...string) (string, error) {
	t.Helper()
	rootCommand := NewRootCommand(harness.dependencies())
	var output bytes.Buffer
	rootCommand.SetOut(&output)
	rootCommand.SetErr(&output)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, append([]string{"--config", harness.configPath}, arguments...)))
	err := rootCommand.Execute()
	return output.String(), err
}

func createRepository(t *testing.T) string {
	t.Helper()
	repositoryRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repositoryRoot, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repositoryRoot, "main.py"), []byte("print('hello')\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(repositoryRoot, "pkg", "data.py"), []byte("DATA = [1, 2, 3]\n"), 0o600))
	return repositoryRoot
}

func TestRootCommandGeneratesRestoresAndDeletes(t *testing.T) {
	harness := newCommandHarness(t)
	repositoryRoot := createRepository(t)
	rootReadme := filepath.Join(repositoryRoot, "README.md")
	nestedReadme := filepath.Join(repositoryRoot, "pkg", "README.md")

	output, err := harness.run(t, "--copy", repositoryRoot)
	require.NoError(t, err)
	require.Contains(t, output, "Summarized 2 files in 2 directories")
	require.Contains(t, output, stubDirectorySummary)
	require.Equal(t, []string{stubDirectorySummary}, harness.copier.copied)
	require.Equal(t, 2, harness.summarizer.fileCalls)
	require.Equal(t, 2, harness.summarizer.directoryCalls)

	rootContent, readErr := os.ReadFile(rootReadme)
	require.NoError(t, readErr)
	require.Contains(t, string(rootContent), "\n### Directory Summary: pkg\n"+stubDirectorySummary+"\n")
	require.Contains(t, string(rootContent), "\n### File Summary: main.py\n"+stubFileSummary+"\n")
	require.FileExists(t, nestedReadme)

	output, err = harness.run(t, "--restore", repositoryRoot)
	require.NoError(t, err)
	require.Contains(t, output, "removed 2")
	require.NoFileExists(t, rootReadme)
	require.NoFileExists(t, nestedReadme)

	_, err = harness.run(t, repositoryRoot)
	require.NoError(t, err)
	output, err = harness.run(t, "--delete", repositoryRoot)
	require.NoError(t, err)
	require.Contains(t, output, "Deleted 2 README files")
	require.NoFileExists(t, rootReadme)
	require.NoFileExists(t, nestedReadme)
}

func TestRootCommandRestoreWithoutSnapshot(t *testing.T) {
	harness := newCommandHarness(t)
	repositoryRoot := createRepository(t)

	output, err := harness.run(t, "--restore", repositoryRoot)
	require.NoError(t, err)
	require.Equal(t, missingSnapshotMessage, output)
}

func TestRootCommandRejectsRestoreWithDelete(t *testing.T) {
	harness := newCommandHarness(t)
	repositoryRoot := createRepository(t)

	_, err := harness.run(t, "--restore", "--delete", repositoryRoot)
	require.Error(t, err)
	require.Zero(t, harness.summarizer.fileCalls)
}

func TestRootCommandRejectsInvalidRepository(t *testing.T) {
	harness := newCommandHarness(t)
	filePath := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("text"), 0o600))

	testCases := []struct {
		name          string
		argument      string
		expectedError string
	}{
		{name: "missing", argument: filepath.Join(t.TempDir(), "absent"), expectedError: "does not exist"},
		{name: "file", argument: filePath, expectedError: "is not a directory"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := harness.run(t, testCase.argument)
			require.Error(t, err)
			require.Contains(t, err.Error(), testCase.expectedError)
		})
	}
}

func TestRootCommandPrintsVersion(t *testing.T) {
	harness := newCommandHarness(t)

	output, err := harness.run(t, "--version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(output, "autodoc version: "))
	require.Zero(t, harness.summarizer.directoryCalls)
}

func TestRootCommandReportsUnknownProvider(t *testing.T) {
	harness := newCommandHarness(t)
	repositoryRoot := createRepository(t)
	require.NoError(t, os.WriteFile(harness.configPath, []byte("memory_location: "+harness.memoryPath+"\nllm:\n  provider: carrier-pigeon\n"), 0o600))

	dependencies := harness.dependencies()
	dependencies.NewSummarizer = nil
	rootCommand := NewRootCommand(dependencies)
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs([]string{"--config", harness.configPath, repositoryRoot})

	err := rootCommand.Execute()
	require.Error(t, err)
	require.True(t, errors.Is(err, llm.ErrUnknownProvider))
	require.NoFileExists(t, filepath.Join(repositoryRoot, "README.md"))
}

func TestConfigCommandsWriteGlobalFile(t *testing.T) {
	harness := newCommandHarness(t)

	output, err := harness.run(t, "config", "init", "--global")
	require.NoError(t, err)
	globalPath, pathErr := config.GlobalConfigPath()
	require.NoError(t, pathErr)
	require.Contains(t, output, globalPath)
	require.FileExists(t, globalPath)

	_, err = harness.run(t, "config", "init", "--global")
	require.Error(t, err)
	_, err = harness.run(t, "config", "init", "--global", "--force")
	require.NoError(t, err)

	_, err = harness.run(t, "config", "set", "readme_name", "NOTES.md", "--global")
	require.NoError(t, err)
	content, readErr := os.ReadFile(globalPath)
	require.NoError(t, readErr)
	require.Contains(t, string(content), "readme_name: NOTES.md")

	_, err = harness.run(t, "config", "set", "unknown_key", "value", "--global")
	require.ErrorIs(t, err, config.ErrUnknownConfigurationKey)
}

func TestNormalizeRootArgumentsKeepsRepositoryPositional(t *testing.T) {
	rootCommand := NewRootCommand(Dependencies{})

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{name: "repository_after_flag", arguments: []string{"--copy", "./repo"}, expected: []string{"--copy", "./repo"}},
		{name: "literal_after_flag", arguments: []string{"--copy", "yes", "./repo"}, expected: []string{"--copy=yes", "./repo"}},
		{name: "subcommand_flag", arguments: []string{"config", "init", "--global", "no"}, expected: []string{"config", "init", "--global=no"}},
		{name: "string_flag_untouched", arguments: []string{"--config", "true"}, expected: []string{"--config", "true"}},
		{name: "terminator_stops_folding", arguments: []string{"--", "--copy", "yes"}, expected: []string{"--", "--copy", "yes"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, normalizeBooleanFlagArguments(rootCommand, testCase.arguments))
		})
	}
}
