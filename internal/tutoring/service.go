package tutoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/anatomymentor/internal/models"
	"github.com/lehigh-university-libraries/anatomymentor/internal/prompt"
	"github.com/lehigh-university-libraries/anatomymentor/internal/providers"
)

// uploadedImageName names an image in the fallback sentence
const uploadedImageName = "the uploaded image"

type Service struct {
	provider    providers.Provider
	attachImage bool
}

// Option configures a Service
type Option func(*Service)

// WithImageAttached sends uploaded image bytes along with the image prompt.
// Without it every image produces the same request.
func WithImageAttached(attach bool) Option {
	return func(s *Service) {
		s.attachImage = attach
	}
}

func NewService(provider providers.Provider, opts ...Option) *Service {
	s := &Service{provider: provider}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeTopic explains the given anatomy topic
func (s *Service) AnalyzeTopic(ctx context.Context, topic string) (models.ModelResponse, error) {
	return s.generate(ctx, providers.Request{Prompt: prompt.Analysis(topic)}, topic)
}

// GenerateQuestions asks for count multiple-choice questions on topic
func (s *Service) GenerateQuestions(ctx context.Context, topic, count string) (models.ModelResponse, error) {
	return s.generate(ctx, providers.Request{Prompt: prompt.Questions(topic, count)}, topic)
}

// AnalyzeImage explains the structure in an uploaded image
func (s *Service) AnalyzeImage(ctx context.Context, img *models.UploadedImage) (models.ModelResponse, error) {
	if img == nil {
		return models.ModelResponse{}, fmt.Errorf("no image to analyze")
	}

	req := providers.Request{Prompt: prompt.Image()}
	if s.attachImage {
		req.Image = img
	}

	slog.Debug("Analyzing uploaded image", "filename", img.Filename, "format", img.Format, "attached", s.attachImage)
	return s.generate(ctx, req, uploadedImageName)
}

// generate calls the provider once. An empty model answer becomes the
// fallback sentence; every other failure is returned as is.
func (s *Service) generate(ctx context.Context, req providers.Request, name string) (models.ModelResponse, error) {
	text, err := s.provider.Generate(ctx, req)
	if errors.Is(err, providers.ErrEmptyResponse) {
		slog.Warn("Model returned no usable response", "name", name, "err", err)
		return models.ModelResponse{Text: Fallback(name), Fallback: true}, nil
	}
	if err != nil {
		return models.ModelResponse{}, err
	}

	slog.Info("Generated response", "length", len(text))
	return models.ModelResponse{Text: text}, nil
}

// Fallback is shown when the model had nothing to say about name
func Fallback(name string) string {
	return fmt.Sprintf("No analysis available for %s.", name)
}
