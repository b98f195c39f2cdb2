package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"briefium/generator"
)

const (
	DefaultProvider       = "gemini"
	DefaultServerAddr     = ":8080"
	DefaultTimeoutSeconds = 120
)

// Config holds process-wide settings resolved once at startup.
type Config struct {
	LLM            *LLMConfig `json:"llm,omitempty" yaml:"llm,omitempty"`
	ServerAddr     string     `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`
	TimeoutSeconds int        `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// LLMConfig selects the text-completion backend.
type LLMConfig struct {
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// LoadConfig reads JSON (or YAML for .yaml/.yml) from disk, then applies
// environment overrides and defaults. An empty path yields defaults only.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &cfg)
		default:
			err = json.Unmarshal(data, &cfg)
		}
		if err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if v := os.Getenv("BRIEFIUM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("BRIEFIUM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("BRIEFIUM_ADDR"); v != "" {
		c.ServerAddr = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.Model == "" && c.LLM.Provider == "gemini" {
		c.LLM.Model = generator.DefaultGeminiModel
	}
	if c.LLM.APIKey == "" {
		if env := c.LLM.keyEnv(); env != "" {
			c.LLM.APIKey = os.Getenv(env)
		}
	}
	if c.ServerAddr == "" {
		c.ServerAddr = DefaultServerAddr
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

func (l *LLMConfig) keyEnv() string {
	if l.APIKeyEnv != "" {
		return l.APIKeyEnv
	}
	switch l.Provider {
	case "gemini":
		return "GOOGLE_API_KEY"
	case "openai", "deepseek":
		return "OPENAI_API_KEY"
	}
	return ""
}

// Validate reports settings that make startup impossible.
func (c Config) Validate() error {
	if c.LLM == nil || c.LLM.Provider == "" {
		return errors.New("llm.provider is required")
	}
	if c.LLM.Provider == "mock" {
		return nil
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("api key for provider %s not found; set llm.api_key or the %s environment variable", c.LLM.Provider, c.LLM.keyEnv())
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required for provider %s", c.LLM.Provider)
	}
	if c.LLM.Provider == "deepseek" && c.LLM.BaseURL == "" {
		return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
	}
	return nil
}

// Timeout is the per-call backend timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LLMSettings converts the backend section for generator.NewLLM.
func (c Config) LLMSettings() *generator.LLMSettings {
	if c.LLM == nil {
		return nil
	}
	return &generator.LLMSettings{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
	}
}
