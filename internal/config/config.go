package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Supported LLM providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port     string `toml:"port"`
	Language string `toml:"language"`
	Debug    bool   `toml:"debug"`

	LLMProvider     string `toml:"llm_provider"`
	GeminiAPIKey    string `toml:"gemini_api_key"`
	GeminiModel     string `toml:"gemini_model"`
	OpenAIAPIKey    string `toml:"openai_api_key"`
	OpenAIModel     string `toml:"openai_model"`
	AnthropicAPIKey string `toml:"anthropic_api_key"`
	AnthropicModel  string `toml:"anthropic_model"`

	GitHubToken string `toml:"github_token"`

	DefaultHourlyRate float64 `toml:"default_hourly_rate"`

	// Serverless enables the latency-constrained classification profile:
	// a single attempt with a short timeout instead of retries.
	Serverless bool `toml:"serverless"`

	ReadTimeout  time.Duration `toml:"-"`
	WriteTimeout time.Duration `toml:"-"`

	SessionTTL    time.Duration `toml:"-"`
	SweepInterval time.Duration `toml:"-"`

	CacheTTL        time.Duration `toml:"-"`
	CacheMaxEntries int           `toml:"cache_max_entries"`

	// ClassifyRate throttles outbound classification calls per second.
	ClassifyRate  float64 `toml:"classify_rate"`
	ClassifyBurst int     `toml:"classify_burst"`
}

// Load builds the configuration from defaults, an optional TOML file and
// environment overrides, in that order. A .env file is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:              "5000",
		Language:          "en",
		LLMProvider:       ProviderAnthropic,
		GeminiModel:       "gemini-2.5-flash",
		OpenAIModel:       "gpt-4o",
		AnthropicModel:    "claude-3-5-sonnet-20241022",
		DefaultHourlyRate: 80,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		SessionTTL:        time.Hour,
		SweepInterval:     10 * time.Minute,
		CacheTTL:          24 * time.Hour,
		CacheMaxEntries:   10000,
		ClassifyRate:      2,
		ClassifyBurst:     1,
	}
}

func (c *Config) applyEnv() {
	setString(&c.Port, "PORT")
	setString(&c.Language, "LANGUAGE")
	setString(&c.LLMProvider, "LLM_PROVIDER")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.OpenAIModel, "OPENAI_MODEL")
	setString(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.AnthropicModel, "ANTHROPIC_MODEL")
	setString(&c.GitHubToken, "GITHUB_TOKEN")
	setBool(&c.Debug, "DEBUG")
	setBool(&c.Serverless, "SERVERLESS")

	// Platforms like Vercel expose their own marker instead of SERVERLESS.
	if os.Getenv("VERCEL") != "" {
		c.Serverless = true
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported llm_provider %q", c.LLMProvider)
	}
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.DefaultHourlyRate <= 0 {
		return errors.New("default_hourly_rate must be positive")
	}
	if c.CacheMaxEntries <= 0 {
		return errors.New("cache_max_entries must be positive")
	}
	if c.ClassifyRate <= 0 {
		return errors.New("classify_rate must be positive")
	}
	return nil
}

// ProviderAPIKey returns the API key configured for the active provider.
func (c *Config) ProviderAPIKey() string {
	switch c.LLMProvider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	}
	return ""
}
