package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/csheth/hoverlate/internal/llm"
)

const (
	DefaultModel  = "qwen2.5:14b"
	DefaultPrompt = "你是精通多国语言的翻译专家，请将以下文本翻译成中文："
)

// Config is read once at startup and passed by value afterwards.
type Config struct {
	Backend        string        `envconfig:"TRANSLATE_BACKEND" default:"ollama"`
	Endpoint       string        `envconfig:"TRANSLATE_ENDPOINT"`
	Model          string        `envconfig:"TRANSLATE_MODEL" default:"qwen2.5:14b"`
	PromptTemplate string        `envconfig:"TRANSLATE_PROMPT" default:"你是精通多国语言的翻译专家，请将以下文本翻译成中文："`
	Timeout        time.Duration `envconfig:"TRANSLATE_TIMEOUT" default:"0s"`
	APIKeyEnv      string        `envconfig:"TRANSLATE_API_KEY_ENV" default:"OPENAI_API_KEY"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:"hoverlate.log"`
	CacheDir string `envconfig:"HOVERLATE_CACHE_DIR"`

	AltScreen bool `ignored:"true"`
	// APIKey is resolved from the variable named by APIKeyEnv.
	APIKey string `ignored:"true"`
}

// LoadDotEnv loads variables from path without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv reads the environment without validating it, so flags can still
// override the values.
func FromEnv() (*Config, error) {
	cfg := Config{AltScreen: true}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the environment, applies command line overrides parsed from
// args and finalizes the result. Positional arguments stay on flags.
func Load(flags *flag.FlagSet, args []string) (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RegisterFlags binds command line overrides to c, using the current values
// as defaults.
func (c *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "translation endpoint URL (default depends on -backend)")
	flags.StringVar(&c.Model, "model", c.Model, "model name sent with each request")
	flags.StringVar(&c.PromptTemplate, "prompt", c.PromptTemplate, "instruction placed before the selected text")
	flags.StringVar(&c.Backend, "backend", c.Backend, "translation backend: ollama or openai")
	flags.StringVar(&c.APIKeyEnv, "api-key-env", c.APIKeyEnv, "environment variable holding the OpenAI API key")
	flags.DurationVar(&c.Timeout, "timeout", c.Timeout, "per-request timeout, 0 for none")
	flags.StringVar(&c.LogFile, "log-file", c.LogFile, "log file path, empty to disable logging")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	flags.BoolFunc("no-alt-screen", "render inline instead of using the alternate screen", func(string) error {
		c.AltScreen = false
		return nil
	})
}

// Finalize fills backend-dependent defaults, resolves the API key and
// validates the result.
func (c *Config) Finalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Endpoint == "" {
		switch llm.Backend(c.Backend) {
		case llm.BackendOpenAI:
			c.Endpoint = llm.DefaultOpenAIEndpoint
		default:
			c.Endpoint = llm.DefaultOllamaEndpoint
		}
	}
	if c.APIKey == "" && strings.TrimSpace(c.APIKeyEnv) != "" {
		c.APIKey = strings.TrimSpace(os.Getenv(c.APIKeyEnv))
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch llm.Backend(c.Backend) {
	case llm.BackendOllama, llm.BackendOpenAI:
	default:
		return fmt.Errorf("TRANSLATE_BACKEND must be ollama or openai, got %q", c.Backend)
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("TRANSLATE_ENDPOINT is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("TRANSLATE_MODEL is required")
	}
	if strings.TrimSpace(c.PromptTemplate) == "" {
		return fmt.Errorf("TRANSLATE_PROMPT is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("TRANSLATE_TIMEOUT must be >= 0")
	}
	if llm.Backend(c.Backend) == llm.BackendOpenAI && c.APIKey == "" {
		return fmt.Errorf("%s is required for the openai backend", c.APIKeyEnv)
	}
	return nil
}

// LLM converts the configuration into backend settings.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		Backend:        llm.Backend(c.Backend),
		Endpoint:       c.Endpoint,
		Model:          c.Model,
		PromptTemplate: c.PromptTemplate,
		APIKey:         c.APIKey,
	}
}
