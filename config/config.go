// Package config loads runtime settings from a config file, .env and the
// process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"auto_blog_article_writer/generator"
)

const (
	DefaultConfigPath = "config/config.yaml"

	defaultProvider      = "groq"
	defaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	defaultModel         = "llama-3.1-8b-instant"
	defaultTemperature   = 0.3
	defaultMaxTokens     = 4000
	defaultLookupTimeout = 10 * time.Second
	defaultCacheTTL      = time.Hour
	defaultOutputDir     = "examples/output"
	defaultServerAddr    = ":8080"
)

// Config holds every setting the writer needs. The file may be YAML or JSON.
type Config struct {
	LLM        LLMConfig    `yaml:"llm" json:"llm"`
	Lookup     LookupConfig `yaml:"lookup" json:"lookup"`
	Log        LogConfig    `yaml:"log" json:"log"`
	OutputDir  string       `yaml:"output_dir" json:"output_dir"`
	ServerAddr string       `yaml:"server_addr" json:"server_addr"`
}

// LLMConfig selects and tunes the generation backend.
type LLMConfig struct {
	Provider    string  `yaml:"provider" json:"provider"`
	Model       string  `yaml:"model" json:"model"`
	APIKey      string  `yaml:"api_key" json:"api_key"`
	BaseURL     string  `yaml:"base_url" json:"base_url"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
	MaxRetries  int     `yaml:"max_retries" json:"max_retries"`
	Timeout     string  `yaml:"timeout" json:"timeout"`
}

type LookupConfig struct {
	WikipediaURL string `yaml:"wikipedia_url" json:"wikipedia_url"`
	WebURL       string `yaml:"web_url" json:"web_url"`
	Timeout      string `yaml:"timeout" json:"timeout"`
	CacheTTL     string `yaml:"cache_ttl" json:"cache_ttl"`
	RedisURL     string `yaml:"redis_url" json:"redis_url"`
}

type LogConfig struct {
	Mode string `yaml:"mode" json:"mode"`
	File string `yaml:"file" json:"file"`
}

// ConfigurationError reports a missing or invalid setting. It is raised
// before any pipeline work starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider:    defaultProvider,
			Model:       defaultModel,
			Temperature: defaultTemperature,
			MaxTokens:   defaultMaxTokens,
		},
		Lookup: LookupConfig{
			Timeout:  defaultLookupTimeout.String(),
			CacheTTL: defaultCacheTTL.String(),
		},
		Log:        LogConfig{Mode: "development"},
		OutputDir:  defaultOutputDir,
		ServerAddr: defaultServerAddr,
	}
}

// Load reads .env (optional), then the config file at path (optional), then
// environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	cfg.fillProviderDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.APIKey = getEnv("LLM_API_KEY", c.LLM.APIKey)
	if strings.EqualFold(c.LLM.Provider, "groq") {
		c.LLM.APIKey = getEnv("GROQ_API_KEY", c.LLM.APIKey)
	}
	c.LLM.Temperature = getEnvAsFloat("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", c.LLM.MaxTokens)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.Log.Mode = getEnv("LOG_MODE", c.Log.Mode)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
	c.Lookup.RedisURL = getEnv("REDIS_URL", c.Lookup.RedisURL)
	c.ServerAddr = getEnv("SERVER_ADDR", c.ServerAddr)
}

func (c *Config) fillProviderDefaults() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "groq" && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultGroqBaseURL
	}
}

// Validate checks the settings needed before a run can start.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "mock":
	case "groq", "openai", "deepseek":
		if strings.TrimSpace(c.LLM.APIKey) == "" {
			env := "LLM_API_KEY"
			if c.LLM.Provider == "groq" {
				env = "GROQ_API_KEY"
			}
			return &ConfigurationError{Field: "llm.api_key", Reason: "is required; set " + env}
		}
		if strings.TrimSpace(c.LLM.Model) == "" {
			return &ConfigurationError{Field: "llm.model", Reason: "is required"}
		}
		if c.LLM.Provider == "deepseek" && c.LLM.BaseURL == "" {
			return &ConfigurationError{Field: "llm.base_url", Reason: "is required for deepseek (OpenAI-compatible endpoint)"}
		}
	case "":
		return &ConfigurationError{Field: "llm.provider", Reason: "is required"}
	default:
		return &ConfigurationError{Field: "llm.provider", Reason: fmt.Sprintf("%q is not supported", c.LLM.Provider)}
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return &ConfigurationError{Field: "llm.temperature", Reason: "must be between 0 and 2"}
	}
	if c.LLM.MaxTokens <= 0 {
		return &ConfigurationError{Field: "llm.max_tokens", Reason: "must be positive"}
	}
	for field, v := range map[string]string{
		"llm.timeout":      c.LLM.Timeout,
		"lookup.timeout":   c.Lookup.Timeout,
		"lookup.cache_ttl": c.Lookup.CacheTTL,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return &ConfigurationError{Field: field, Reason: "is not a valid duration"}
		}
	}
	return nil
}

// LLMSettings converts the llm block for the generator package.
func (c Config) LLMSettings() *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider:    c.LLM.Provider,
		Model:       c.LLM.Model,
		APIKey:      c.LLM.APIKey,
		BaseURL:     c.LLM.BaseURL,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
		MaxRetries:  c.LLM.MaxRetries,
		Timeout:     parseDuration(c.LLM.Timeout, 0),
	}
}

func (c Config) LookupTimeout() time.Duration {
	return parseDuration(c.Lookup.Timeout, defaultLookupTimeout)
}

func (c Config) CacheTTL() time.Duration {
	return parseDuration(c.Lookup.CacheTTL, defaultCacheTTL)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}
