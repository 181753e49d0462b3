package providers

import (
	"context"
	"errors"

	"github.com/lehigh-university-libraries/anatomymentor/internal/models"
)

const (
	// DefaultTemperature is the sampling temperature when TUTOR_TEMPERATURE is unset
	DefaultTemperature float32 = 0.8
	// DefaultMaxOutputTokens is the output budget when TUTOR_MAX_OUTPUT_TOKENS is unset
	DefaultMaxOutputTokens int32 = 2048
)

// ErrEmptyResponse is returned when the model answered without any usable text
var ErrEmptyResponse = errors.New("model returned no usable response")

// Config represents the generation configuration for an LLM provider.
// It is fixed when the provider is constructed.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// Request is one generation call
type Request struct {
	Prompt string
	// Image is attached to the call when set
	Image *models.UploadedImage
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-1.5-flash"
	case "openai":
		return "gpt-4o"
	case "ollama":
		return "mistral-small3.2:24b"
	default:
		return ""
	}
}
