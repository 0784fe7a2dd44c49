package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"listing_tool/generator"
	"listing_tool/publisher"
)

// Providers accepted in llm.provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderMock       = "mock"
)

// LLMConfig configures the chat-completion endpoint.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" yaml:"provider"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	ModelText   string        `mapstructure:"model_text" yaml:"model_text"`
	ModelVision string        `mapstructure:"model_vision" yaml:"model_vision"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Referer     string        `mapstructure:"referer" yaml:"referer"`
	AppTitle    string        `mapstructure:"app_title" yaml:"app_title"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type ExportConfig struct {
	Brand   string `mapstructure:"brand" yaml:"brand"`
	Tagline string `mapstructure:"tagline" yaml:"tagline"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // console or json
	File   string `mapstructure:"file" yaml:"file"`
}

// Config is the full application configuration.
type Config struct {
	LLM    LLMConfig    `mapstructure:"llm" yaml:"llm"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Export ExportConfig `mapstructure:"export" yaml:"export"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

var defaults = map[string]any{
	"llm.provider":     ProviderOpenRouter,
	"llm.api_key":      "",
	"llm.base_url":     generator.DefaultBaseURL,
	"llm.model_text":   generator.DefaultTextModel,
	"llm.model_vision": generator.DefaultVisionModel,
	"llm.timeout":      generator.DefaultTimeout,
	"llm.referer":      "https://example.com",
	"llm.app_title":    "Listing Tool (DE)",
	"server.addr":      ":8080",
	"export.brand":     publisher.DefaultBrand.Name,
	"export.tagline":   publisher.DefaultBrand.Tagline,
	"log.level":        "info",
	"log.format":       "console",
	"log.file":         "",
}

// environment variables, first match wins
var envBindings = map[string][]string{
	"llm.provider":     {"LISTING_PROVIDER"},
	"llm.api_key":      {"OPENROUTER_API_KEY", "OPENAI_API_KEY"},
	"llm.base_url":     {"OPENROUTER_BASE_URL"},
	"llm.model_text":   {"OPENROUTER_MODEL_TEXT"},
	"llm.model_vision": {"OPENROUTER_MODEL_VISION"},
	"server.addr":      {"LISTING_ADDR"},
	"log.level":        {"LISTING_LOG_LEVEL"},
}

const (
	configName    = "listing"
	openAIBaseURL = "https://api.openai.com/v1"
)

// Dir returns the per-user config directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "listing-tool"), nil
}

// Load reads configuration from path, or from listing.yaml in the working
// directory or Dir when path is empty. A missing default file is not an error.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be fixed by a default.
func (c *Config) Validate() error {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderOpenAI, ProviderMock:
	default:
		return fmt.Errorf("unknown llm.provider %q (want openrouter, openai or mock)", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %s", c.LLM.Timeout)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log.format %q (want console or json)", c.Log.Format)
	}
	return nil
}

// LLMSettings converts the llm section for generator clients.
// With provider openai and the base URL left at its default, the OpenAI
// endpoint is used.
func (c *Config) LLMSettings() generator.LLMSettings {
	baseURL := c.LLM.BaseURL
	if c.LLM.Provider == ProviderOpenAI && baseURL == generator.DefaultBaseURL {
		baseURL = openAIBaseURL
	}
	return generator.LLMSettings{
		Provider:    c.LLM.Provider,
		Model:       c.LLM.ModelText,
		VisionModel: c.LLM.ModelVision,
		APIKey:      strings.TrimSpace(c.LLM.APIKey),
		BaseURL:     baseURL,
		Timeout:     c.LLM.Timeout,
		Referer:     c.LLM.Referer,
		AppTitle:    c.LLM.AppTitle,
	}
}

// Brand returns the export decoration.
func (c *Config) Brand() publisher.Brand {
	return publisher.Brand{Name: c.Export.Brand, Tagline: c.Export.Tagline}
}
