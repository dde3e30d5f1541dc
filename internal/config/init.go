package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `ignore_paths:
  - vendor
  - .git
  - results
  - .ansible
  - .gitignore
  - .venv
  - README.md
  - .pdf
  - go.mod
  - go.sum
memory_location: /tmp/autodoc-snapshots
readme_name: README.md
llm:
  provider: ollama
  model: llama3.2
  base_url: ""
  api_key: ""
  context_window: 16384
  max_input_tokens: 12000
  temperature: 0
`
)

// ErrUnknownConfigurationKey indicates a key that autodoc does not read.
var ErrUnknownConfigurationKey = errors.New("unknown configuration key")

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// ResolveTargetPath returns the configuration file path for the target,
// creating the global configuration directory when needed.
func ResolveTargetPath(target InitTarget, workingDirectory string) (string, error) {
	if target == "" {
		target = InitTargetLocal
	}
	switch target {
	case InitTargetLocal:
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, LocalConfigFileName), nil
	case InitTargetGlobal:
		globalPath, err := GlobalConfigPath()
		if err != nil {
			return "", err
		}
		configurationDirectory := filepath.Dir(globalPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		return globalPath, nil
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, err := ResolveTargetPath(options.Target, options.WorkingDirectory)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}

// SetConfigurationValue stores value under key in the YAML file at path,
// creating the file when it does not exist. Numeric keys are parsed and
// ignore_paths accepts a comma-separated list.
func SetConfigurationValue(path, key, value string) error {
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	typedValue, err := parseConfigurationValue(normalizedKey, value)
	if err != nil {
		return err
	}

	writer := viper.New()
	writer.SetConfigType("yaml")
	writer.SetConfigFile(path)
	if _, statErr := os.Stat(path); statErr == nil {
		if readErr := writer.ReadInConfig(); readErr != nil {
			return fmt.Errorf("read configuration from %s: %w", path, readErr)
		}
	} else if !os.IsNotExist(statErr) {
		return fmt.Errorf("inspect configuration path %s: %w", path, statErr)
	}

	writer.Set(normalizedKey, typedValue)
	if writeErr := writer.WriteConfigAs(path); writeErr != nil {
		return fmt.Errorf("write configuration to %s: %w", path, writeErr)
	}
	return nil
}

func parseConfigurationValue(key, value string) (any, error) {
	switch key {
	case KeyIgnorePaths:
		var patterns []string
		for _, pattern := range strings.Split(value, ",") {
			trimmed := strings.TrimSpace(pattern)
			if trimmed != "" {
				patterns = append(patterns, trimmed)
			}
		}
		return patterns, nil
	case KeyLLMContextWindow, KeyLLMMaxInputTokens:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("value for %s must be an integer: %w", key, err)
		}
		return parsed, nil
	case KeyLLMTemperature:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("value for %s must be a number: %w", key, err)
		}
		return parsed, nil
	case KeyMemoryLocation, KeyReadmeName, KeyLLMProvider, KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey:
		return value, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownConfigurationKey, key)
	}
}
