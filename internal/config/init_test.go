package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	path, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, LocalConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read config: %v", readErr)
	}
	if !strings.Contains(string(content), "provider: ollama") {
		t.Fatalf("unexpected configuration content: %s", string(content))
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, Force: true})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	if path != filepath.Join(homeDir, GlobalConfigDirectoryName, ConfigFileName) {
		t.Fatalf("expected configuration under home dir, got %s", path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, LocalConfigFileName)
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	_, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: false})
	if err == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: true}); err != nil {
		t.Fatalf("expected forced initialization to succeed: %v", err)
	}
}

func TestSetConfigurationValueRoundTrip(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, LocalConfigFileName)

	if err := SetConfigurationValue(path, KeyLLMModel, "gpt-4o"); err != nil {
		t.Fatalf("set model: %v", err)
	}
	if err := SetConfigurationValue(path, KeyLLMMaxInputTokens, "2048"); err != nil {
		t.Fatalf("set max input tokens: %v", err)
	}
	if err := SetConfigurationValue(path, KeyIgnorePaths, "dist, node_modules"); err != nil {
		t.Fatalf("set ignore paths: %v", err)
	}

	loaded, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	settings := loaded.Resolve()
	if settings.LLM.Model != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %q", settings.LLM.Model)
	}
	if settings.LLM.MaxInputTokens != 2048 {
		t.Fatalf("expected 2048 tokens, got %d", settings.LLM.MaxInputTokens)
	}
	if len(settings.IgnorePaths) != 2 || settings.IgnorePaths[0] != "dist" || settings.IgnorePaths[1] != "node_modules" {
		t.Fatalf("unexpected ignore paths %v", settings.IgnorePaths)
	}
}

func TestSetConfigurationValueRejectsInvalidInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), LocalConfigFileName)
	if err := SetConfigurationValue(path, "llm.unknown", "x"); !errors.Is(err, ErrUnknownConfigurationKey) {
		t.Fatalf("expected ErrUnknownConfigurationKey, got %v", err)
	}
	if err := SetConfigurationValue(path, KeyLLMContextWindow, "many"); err == nil {
		t.Fatalf("expected error for non-integer context window")
	}
}
