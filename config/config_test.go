package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"GROQ_API_KEY", "LLM_API_KEY", "LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL",
	"LLM_TEMPERATURE", "LLM_MAX_TOKENS", "OUTPUT_DIR", "LOG_MODE", "LOG_FILE",
	"REDIS_URL", "SERVER_ADDR",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)
	assert.Equal(t, 4000, cfg.LLM.MaxTokens)
	assert.Equal(t, "examples/output", cfg.OutputDir)
	assert.Equal(t, 10*time.Second, cfg.LookupTimeout())
	assert.Equal(t, time.Hour, cfg.CacheTTL())
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-file
  max_tokens: 1200
  timeout: 45s
lookup:
  timeout: 3s
  redis_url: redis://localhost:6379/2
output_dir: out
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.BaseURL)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)
	assert.Equal(t, 3*time.Second, cfg.LookupTimeout())
	assert.Equal(t, "redis://localhost:6379/2", cfg.Lookup.RedisURL)
	assert.Equal(t, "out", cfg.OutputDir)

	settings := cfg.LLMSettings()
	assert.Equal(t, "sk-file", settings.APIKey)
	assert.Equal(t, 1200, settings.MaxTokens)
	assert.Equal(t, 45*time.Second, settings.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_JSONFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"llm": {"provider": "mock"}, "server_addr": ":9000"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "llm: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-env")
	t.Setenv("LLM_MODEL", "llama-3.3-70b")
	t.Setenv("LLM_MAX_TOKENS", "2048")
	t.Setenv("OUTPUT_DIR", "/tmp/articles")
	path := writeFile(t, "config.yaml", "llm:\n  model: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gsk-env", cfg.LLM.APIKey)
	assert.Equal(t, "llama-3.3-70b", cfg.LLM.Model)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
	assert.Equal(t, "/tmp/articles", cfg.OutputDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{name: "missing groq key", edit: func(c *Config) {}, field: "llm.api_key"},
		{name: "unknown provider", edit: func(c *Config) { c.LLM.Provider = "bard" }, field: "llm.provider"},
		{name: "deepseek without base url", edit: func(c *Config) {
			c.LLM.Provider = "deepseek"
			c.LLM.APIKey = "k"
			c.LLM.BaseURL = ""
		}, field: "llm.base_url"},
		{name: "temperature out of range", edit: func(c *Config) {
			c.LLM.APIKey = "k"
			c.LLM.Temperature = 3
		}, field: "llm.temperature"},
		{name: "bad duration", edit: func(c *Config) {
			c.LLM.APIKey = "k"
			c.Lookup.Timeout = "ten seconds"
		}, field: "lookup.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(&cfg)

			var cerr *ConfigurationError
			require.ErrorAs(t, cfg.Validate(), &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestValidate_MockNeedsNoKey(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "mock"
	assert.NoError(t, cfg.Validate())
}
