package llm

import (
	"os"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Provider identifies a supported LLM backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// Defaults bias toward local-first (Ollama) usage.
const (
	DefaultProvider    = ProviderOllama
	DefaultModel       = "llama3"
	DefaultTemperature = 0.2
	DefaultTimeoutS    = 60
	DefaultMaxRetries  = 3

	DefaultOpenAIBaseURL    = "https://api.openai.com"
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultAnthropicVersion = "2023-06-01"
	DefaultOllamaBaseURL    = "http://localhost:11434"
)

// Config holds all settings for one client. It is treated as immutable:
// build a new Config per logical client instead of patching an existing one.
type Config struct {
	Provider Provider `yaml:"provider"`
	Model    string   `yaml:"model"`

	// Behavior settings
	Temperature float64 `yaml:"temperature"`
	MaxTokens   *int    `yaml:"max_tokens"`
	TimeoutS    int     `yaml:"timeout_s"`
	MaxRetries  int     `yaml:"max_retries"`

	// Provider-specific settings
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`

	AnthropicAPIKey  string `yaml:"anthropic_api_key"`
	AnthropicAPIURL  string `yaml:"anthropic_api_url"`
	AnthropicVersion string `yaml:"anthropic_version"`

	OllamaBaseURL string `yaml:"ollama_base_url"`
}

// DefaultConfig returns a Config populated with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Provider:         DefaultProvider,
		Model:            DefaultModel,
		Temperature:      DefaultTemperature,
		TimeoutS:         DefaultTimeoutS,
		MaxRetries:       DefaultMaxRetries,
		OpenAIBaseURL:    DefaultOpenAIBaseURL,
		AnthropicAPIURL:  DefaultAnthropicBaseURL,
		AnthropicVersion: DefaultAnthropicVersion,
		OllamaBaseURL:    DefaultOllamaBaseURL,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// the documented defaults for anything unset.
//
// Environment variables:
//
//	LLM_PROVIDER       openai | anthropic | ollama (default: ollama)
//	LLM_MODEL          model name (default: llama3)
//	LLM_TEMPERATURE    sampling temperature (default: 0.2)
//	LLM_MAX_TOKENS     max output tokens (optional)
//	LLM_TIMEOUT_S      request timeout in seconds (default: 60)
//	LLM_MAX_RETRIES    transport attempts (default: 3)
//	OPENAI_API_KEY, OPENAI_BASE_URL
//	ANTHROPIC_API_KEY, ANTHROPIC_API_URL, ANTHROPIC_VERSION
//	OLLAMA_BASE_URL
//
// An unrecognized provider or unparsable numeric value fails here, at
// config-build time, rather than at first use.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config file and overlays it on the defaults,
// with environment variables taking precedence over the file. Fields absent
// from the file keep their default values.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-specified config path is intentional
	if err != nil {
		return Config{}, WrapError(err, "failed to read config file %s", path)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return Config{}, WrapError(err, "failed to parse config file %s", path)
	}

	cfg := DefaultConfig()
	if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
		return Config{}, WrapError(err, "failed to merge config file %s", path)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides cfg fields from environment variables where set.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(strings.ToLower(v))
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return WrapError(err, "invalid LLM_TEMPERATURE %q", v)
		}
		cfg.Temperature = t
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return WrapError(err, "invalid LLM_MAX_TOKENS %q", v)
		}
		cfg.MaxTokens = &n
	}
	if v := os.Getenv("LLM_TIMEOUT_S"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return WrapError(err, "invalid LLM_TIMEOUT_S %q", v)
		}
		cfg.TimeoutS = n
	}
	if v := os.Getenv("LLM_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return WrapError(err, "invalid LLM_MAX_RETRIES %q", v)
		}
		cfg.MaxRetries = n
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_URL"); v != "" {
		cfg.AnthropicAPIURL = v
	}
	if v := os.Getenv("ANTHROPIC_VERSION"); v != "" {
		cfg.AnthropicVersion = v
	}

	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.OllamaBaseURL = v
	}
	return nil
}

func validate(cfg Config) error {
	switch cfg.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderOllama:
		return nil
	default:
		return NewError("unsupported provider: %s", cfg.Provider)
	}
}

// OpenAIURL returns the OpenAI chat completions endpoint.
func (c Config) OpenAIURL() string {
	return strings.TrimRight(c.OpenAIBaseURL, "/") + "/v1/chat/completions"
}

// AnthropicURL returns the Anthropic messages endpoint.
func (c Config) AnthropicURL() string {
	return strings.TrimRight(c.AnthropicAPIURL, "/") + "/v1/messages"
}

// OllamaURL returns the Ollama chat endpoint.
func (c Config) OllamaURL() string {
	return strings.TrimRight(c.OllamaBaseURL, "/") + "/api/chat"
}
