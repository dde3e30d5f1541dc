package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/autodoc/internal/utils"
)

const (
	// ConfigFileName is the name of the global configuration file.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".autodoc.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding ConfigFileName.
	GlobalConfigDirectoryName = ".autodoc"
	// EnvironmentPrefix prefixes environment overrides, e.g. AUTODOC_LLM_MODEL.
	EnvironmentPrefix = "AUTODOC"

	defaultLLMProvider       = "ollama"
	defaultLLMModel          = "llama3.2"
	defaultContextWindow     = 16384
	defaultMaxInputTokens    = 12000
	defaultMemoryLocationDir = "autodoc-snapshots"
)

// DefaultIgnorePaths lists the path fragments excluded when configuration does not override them.
var DefaultIgnorePaths = []string{"vendor", ".git", "results", ".ansible", ".gitignore", ".venv", "README.md", ".pdf", "go.mod", "go.sum"}

// Keys accepted by SetConfigurationValue and bound to environment variables.
const (
	KeyIgnorePaths       = "ignore_paths"
	KeyMemoryLocation    = "memory_location"
	KeyReadmeName        = "readme_name"
	KeyLLMProvider       = "llm.provider"
	KeyLLMModel          = "llm.model"
	KeyLLMBaseURL        = "llm.base_url"
	KeyLLMAPIKey         = "llm.api_key"
	KeyLLMContextWindow  = "llm.context_window"
	KeyLLMMaxInputTokens = "llm.max_input_tokens"
	KeyLLMTemperature    = "llm.temperature"
)

var configurationKeys = []string{
	KeyIgnorePaths,
	KeyMemoryLocation,
	KeyReadmeName,
	KeyLLMProvider,
	KeyLLMModel,
	KeyLLMBaseURL,
	KeyLLMAPIKey,
	KeyLLMContextWindow,
	KeyLLMMaxInputTokens,
	KeyLLMTemperature,
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the YAML configuration file. Unset values stay
// nil or empty so that later layers only override what they define.
type ApplicationConfiguration struct {
	IgnorePaths    []string         `mapstructure:"ignore_paths"`
	MemoryLocation string           `mapstructure:"memory_location"`
	ReadmeName     string           `mapstructure:"readme_name"`
	LLM            LLMConfiguration `mapstructure:"llm"`
}

// LLMConfiguration selects and tunes the summarization backend.
type LLMConfiguration struct {
	Provider       string   `mapstructure:"provider"`
	Model          string   `mapstructure:"model"`
	BaseURL        string   `mapstructure:"base_url"`
	APIKey         string   `mapstructure:"api_key"`
	ContextWindow  *int     `mapstructure:"context_window"`
	MaxInputTokens *int     `mapstructure:"max_input_tokens"`
	Temperature    *float64 `mapstructure:"temperature"`
}

// Settings is the fully resolved configuration with defaults applied.
type Settings struct {
	IgnorePaths    []string
	MemoryLocation string
	ReadmeName     string
	LLM            LLMSettings
}

// LLMSettings is the resolved backend selection.
type LLMSettings struct {
	Provider       string
	Model          string
	BaseURL        string
	APIKey         string
	ContextWindow  int
	MaxInputTokens int
	Temperature    float64
}

// LoadApplicationConfiguration merges the global file, the local or explicit file,
// and AUTODOC_* environment variables, in that order of increasing precedence.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath, resolveErr := GlobalConfigPath(); resolveErr == nil {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	environmentConfig, environmentErr := loadConfigurationFromEnvironment()
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	merged = merged.Merge(environmentConfig)

	merged.IgnorePaths = utils.DeduplicatePatterns(merged.IgnorePaths)
	return merged, nil
}

// GlobalConfigPath returns the path of the per-user configuration file.
func GlobalConfigPath() (string, error) {
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for configuration: %w", err)
	}
	if homeDirectory == "" {
		return "", fmt.Errorf("resolve home directory for configuration: empty home directory")
	}
	return filepath.Join(homeDirectory, GlobalConfigDirectoryName, ConfigFileName), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

func loadConfigurationFromEnvironment() (ApplicationConfiguration, error) {
	reader := viper.New()
	reader.SetEnvPrefix(EnvironmentPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range configurationKeys {
		if bindErr := reader.BindEnv(key); bindErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("bind environment for %s: %w", key, bindErr)
		}
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode environment configuration: %w", decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if len(override.IgnorePaths) > 0 {
		result.IgnorePaths = append([]string{}, utils.DeduplicatePatterns(override.IgnorePaths)...)
	}
	if override.MemoryLocation != "" {
		result.MemoryLocation = override.MemoryLocation
	}
	if override.ReadmeName != "" {
		result.ReadmeName = override.ReadmeName
	}
	result.LLM = result.LLM.merge(override.LLM)
	return result
}

func (config LLMConfiguration) merge(override LLMConfiguration) LLMConfiguration {
	result := config
	if override.Provider != "" {
		result.Provider = override.Provider
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	if override.APIKey != "" {
		result.APIKey = override.APIKey
	}
	if override.ContextWindow != nil {
		result.ContextWindow = cloneInt(override.ContextWindow)
	}
	if override.MaxInputTokens != nil {
		result.MaxInputTokens = cloneInt(override.MaxInputTokens)
	}
	if override.Temperature != nil {
		result.Temperature = cloneFloat(override.Temperature)
	}
	return result
}

// Resolve applies defaults to every unset value.
func (config ApplicationConfiguration) Resolve() Settings {
	settings := Settings{
		IgnorePaths:    append([]string{}, DefaultIgnorePaths...),
		MemoryLocation: config.MemoryLocation,
		ReadmeName:     config.ReadmeName,
		LLM: LLMSettings{
			Provider:       strings.ToLower(strings.TrimSpace(config.LLM.Provider)),
			Model:          strings.TrimSpace(config.LLM.Model),
			BaseURL:        strings.TrimSpace(config.LLM.BaseURL),
			APIKey:         config.LLM.APIKey,
			ContextWindow:  defaultContextWindow,
			MaxInputTokens: defaultMaxInputTokens,
		},
	}
	if len(config.IgnorePaths) > 0 {
		settings.IgnorePaths = append([]string{}, config.IgnorePaths...)
	}
	if strings.TrimSpace(settings.MemoryLocation) == "" {
		settings.MemoryLocation = filepath.Join(os.TempDir(), defaultMemoryLocationDir)
	}
	if settings.ReadmeName == "" {
		settings.ReadmeName = utils.DefaultReadmeFileName
	}
	if settings.LLM.Provider == "" {
		settings.LLM.Provider = defaultLLMProvider
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = defaultLLMModel
	}
	if config.LLM.ContextWindow != nil && *config.LLM.ContextWindow > 0 {
		settings.LLM.ContextWindow = *config.LLM.ContextWindow
	}
	if config.LLM.MaxInputTokens != nil && *config.LLM.MaxInputTokens > 0 {
		settings.LLM.MaxInputTokens = *config.LLM.MaxInputTokens
	}
	if config.LLM.Temperature != nil {
		settings.LLM.Temperature = *config.LLM.Temperature
	}
	return settings
}

// EnsureMemoryLocation creates the snapshot directory when it does not exist yet.
func (settings Settings) EnsureMemoryLocation() error {
	if err := os.MkdirAll(settings.MemoryLocation, 0o755); err != nil {
		return fmt.Errorf("create memory location %s: %w", settings.MemoryLocation, err)
	}
	return nil
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
