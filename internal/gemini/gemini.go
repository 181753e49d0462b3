package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/anatomymentor/internal/providers"
	"google.golang.org/api/option"
)

// generator is the part of *genai.GenerativeModel the provider uses
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini is a provider for Google Gemini
type Gemini struct {
	client *genai.Client
	model  generator
	name   string
}

// New returns a Gemini provider with the generation config applied once.
// The API key is checked here rather than on the first call.
func New(ctx context.Context, apiKey string, config providers.Config) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("gemini model name not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}

	model := client.GenerativeModel(config.Model)
	configure(model, config)

	return &Gemini{
		client: client,
		model:  model,
		name:   config.Model,
	}, nil
}

func configure(model *genai.GenerativeModel, config providers.Config) {
	model.SetTemperature(config.Temperature)
	model.SetMaxOutputTokens(config.MaxOutputTokens)
}

// Close releases the underlying client
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Generate sends the prompt, plus the image when the request carries one
func (g *Gemini) Generate(ctx context.Context, req providers.Request) (string, error) {
	parts := []genai.Part{genai.Text(req.Prompt)}
	if req.Image != nil {
		parts = append(parts, genai.ImageData(req.Image.Format, req.Image.Data))
	}

	slog.Debug("Calling Gemini", "model", g.name, "prompt_length", len(req.Prompt), "image", req.Image != nil)

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return responseText(resp)
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini: %w", providers.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini: %w", providers.ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in Gemini response: %w", providers.ErrEmptyResponse)
	}

	return sb.String(), nil
}
