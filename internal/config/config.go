package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// LogLevel is the minimum log level (DEBUG, INFO, WARN, ERROR).
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Database is the path to the SQLite task database.
	// Empty means the default data directory; ":memory:" is accepted.
	Database string `json:"database,omitempty" yaml:"database,omitempty"`

	// Provider selects the chat model provider: "openai" (default) or "anthropic".
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`

	OpenAI    OpenAIConfig    `json:"openai,omitempty" yaml:"openai,omitempty"`
	Anthropic AnthropicConfig `json:"anthropic,omitempty" yaml:"anthropic,omitempty"`
	Session   SessionConfig   `json:"session,omitempty" yaml:"session,omitempty"`
}

// OpenAIConfig configures the OpenAI / Azure OpenAI provider.
// Endpoint and Deployment are both required for the agent to initialize;
// when either is missing the agent feature is disabled per session.
type OpenAIConfig struct {
	Endpoint   string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Deployment string `json:"deployment,omitempty" yaml:"deployment,omitempty"`
	APIKey     string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Model  string `json:"model,omitempty" yaml:"model,omitempty"`
}

// SessionConfig configures agent session retention. Zero values disable
// eviction entirely (sessions live for the process lifetime).
type SessionConfig struct {
	// MaxSessions caps the number of live sessions; the least recently
	// used session is evicted when the cap is exceeded.
	MaxSessions int `json:"maxSessions,omitempty" yaml:"maxSessions,omitempty"`

	// IdleTTL expires sessions unused for longer than this duration,
	// e.g. "30m" or "2h".
	IdleTTL string `json:"idleTTL,omitempty" yaml:"idleTTL,omitempty"`
}

// IdleTTLDuration parses IdleTTL. An empty or invalid value means no expiry.
func (s SessionConfig) IdleTTLDuration() time.Duration {
	if s.IdleTTL == "" {
		return 0
	}
	d, err := time.ParseDuration(s.IdleTTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Port:     8080,
		LogLevel: "INFO",
	}
}

// Load loads configuration from multiple sources (priority order, later wins):
// 1. Built-in defaults
// 2. Global config (~/.config/taskhub/taskhub.{json,jsonc,yaml,yml})
// 3. Project config (<directory>/taskhub.{json,jsonc,yaml,yml})
// 4. TASKHUB_CONFIG file
// 5. Environment variables
func Load(directory string) (*Config, error) {
	config := Default()

	loaded := make(map[string]bool)
	loadOnce := func(path string) {
		absPath, err := filepath.Abs(path)
		if err != nil || loaded[absPath] {
			return
		}
		if loadConfigFile(path, config) == nil {
			loaded[absPath] = true
		}
	}

	candidates := func(dir string) []string {
		return []string{
			filepath.Join(dir, "taskhub.json"),
			filepath.Join(dir, "taskhub.jsonc"),
			filepath.Join(dir, "taskhub.yaml"),
			filepath.Join(dir, "taskhub.yml"),
		}
	}

	for _, path := range candidates(GetPaths().Config) {
		loadOnce(path)
	}

	if directory != "" {
		for _, path := range candidates(directory) {
			loadOnce(path)
		}
	}

	if configPath := os.Getenv("TASKHUB_CONFIG"); configPath != "" {
		loadOnce(configPath)
	}

	applyEnvOverrides(config)

	return config, nil
}

// loadConfigFile loads a single config file, dispatching on extension.
func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	var fileConfig Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		// Strip JSONC comments using tidwall/jsonc
		data = jsonc.ToJSON(data)
		if err := json.Unmarshal(data, &fileConfig); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	mergeConfig(config, &fileConfig)
	return nil
}

// mergeConfig merges non-zero source fields into target.
func mergeConfig(target, source *Config) {
	if source.Port != 0 {
		target.Port = source.Port
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.Database != "" {
		target.Database = source.Database
	}
	if source.Provider != "" {
		target.Provider = source.Provider
	}

	if source.OpenAI.Endpoint != "" {
		target.OpenAI.Endpoint = source.OpenAI.Endpoint
	}
	if source.OpenAI.Deployment != "" {
		target.OpenAI.Deployment = source.OpenAI.Deployment
	}
	if source.OpenAI.APIKey != "" {
		target.OpenAI.APIKey = source.OpenAI.APIKey
	}
	if source.OpenAI.APIVersion != "" {
		target.OpenAI.APIVersion = source.OpenAI.APIVersion
	}

	if source.Anthropic.APIKey != "" {
		target.Anthropic.APIKey = source.Anthropic.APIKey
	}
	if source.Anthropic.Model != "" {
		target.Anthropic.Model = source.Anthropic.Model
	}

	if source.Session.MaxSessions != 0 {
		target.Session.MaxSessions = source.Session.MaxSessions
	}
	if source.Session.IdleTTL != "" {
		target.Session.IdleTTL = source.Session.IdleTTL
	}
}

// applyEnvOverrides applies environment variables (highest priority).
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TASKHUB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Port = port
		}
	}
	if v := os.Getenv("TASKHUB_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("TASKHUB_DB"); v != "" {
		config.Database = v
	}
	if v := os.Getenv("TASKHUB_PROVIDER"); v != "" {
		config.Provider = v
	}

	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		config.OpenAI.Endpoint = v
	}
	if v := os.Getenv("AZURE_OPENAI_DEPLOYMENT"); v != "" {
		config.OpenAI.Deployment = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_VERSION"); v != "" {
		config.OpenAI.APIVersion = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		config.OpenAI.APIKey = v
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.Anthropic.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_MODEL"); v != "" {
		config.Anthropic.Model = v
	}

	if v := os.Getenv("TASKHUB_SESSION_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Session.MaxSessions = n
		}
	}
	if v := os.Getenv("TASKHUB_SESSION_TTL"); v != "" {
		config.Session.IdleTTL = v
	}
}
