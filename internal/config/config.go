// Package config loads AnatomyMentor settings from the environment.
//
// Everything is read once at startup and validated before any provider is
// built, so a missing API key stops the process instead of failing on the
// first page render.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/go-playground/validator/v10"
	"github.com/lehigh-university-libraries/anatomymentor/internal/providers"
	"github.com/lehigh-university-libraries/anatomymentor/internal/stream"
)

// ErrInvalidConfig wraps every load or validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

const redacted = "[redacted]"

// Config holds all application configuration
type Config struct {
	Provider string `env:"TUTOR_PROVIDER" envDefault:"gemini" yaml:"provider" validate:"oneof=gemini openai ollama"`
	Model    string `env:"TUTOR_MODEL" yaml:"model"`

	GeminiAPIKey string `env:"GEMINI_API_KEY" yaml:"gemini_api_key,omitempty" validate:"required_if=Provider gemini"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY" yaml:"openai_api_key,omitempty" validate:"required_if=Provider openai"`
	OpenAIURL    string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1" yaml:"openai_base_url" validate:"omitempty,url"`
	OllamaURL    string `env:"OLLAMA_URL" envDefault:"http://localhost:11434" yaml:"ollama_url" validate:"omitempty,url"`

	// Temperature, MaxOutputTokens and StreamDelay start from the provider
	// and stream defaults and are only overwritten when their variable is set.
	Temperature     float32       `env:"TUTOR_TEMPERATURE" yaml:"temperature" validate:"gte=0,lte=2"`
	MaxOutputTokens int32         `env:"TUTOR_MAX_OUTPUT_TOKENS" yaml:"max_output_tokens" validate:"gt=0"`
	StreamDelay     time.Duration `env:"TUTOR_STREAM_DELAY" yaml:"stream_delay" validate:"gte=0"`
	AttachImage     bool          `env:"TUTOR_ATTACH_IMAGE" envDefault:"false" yaml:"attach_image"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" yaml:"log_format" validate:"oneof=text json"`
}

// Load parses the environment into a validated Config
func Load() (*Config, error) {
	cfg := &Config{
		Temperature:     providers.DefaultTemperature,
		MaxOutputTokens: providers.DefaultMaxOutputTokens,
		StreamDelay:     stream.DefaultDelay,
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing env config: %v", ErrInvalidConfig, err)
	}

	if cfg.Model == "" {
		cfg.Model = providers.DefaultModel(cfg.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Generation returns the settings every model call uses
func (c *Config) Generation() providers.Config {
	return providers.Config{
		Model:           c.Model,
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
	}
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.GeminiAPIKey != "" {
		c.GeminiAPIKey = redacted
	}
	if c.OpenAIAPIKey != "" {
		c.OpenAIAPIKey = redacted
	}
	return c
}
