package tutoring

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lehigh-university-libraries/anatomymentor/internal/models"
	"github.com/lehigh-university-libraries/anatomymentor/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	text     string
	err      error
	requests []providers.Request
}

func (f *fakeProvider) Generate(ctx context.Context, req providers.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.text, f.err
}

func TestAnalyzeTopic(t *testing.T) {
	p := &fakeProvider{text: "The femur is..."}
	s := NewService(p)

	resp, err := s.AnalyzeTopic(context.Background(), "femur")
	require.NoError(t, err)

	assert.Equal(t, models.ModelResponse{Text: "The femur is..."}, resp)
	require.Len(t, p.requests, 1)
	assert.Equal(t, "Explain anatomy for this topic: femur", p.requests[0].Prompt)
	assert.Nil(t, p.requests[0].Image)
}

func TestGenerateQuestions(t *testing.T) {
	p := &fakeProvider{text: "1. Which nerve..."}
	s := NewService(p)

	resp, err := s.GenerateQuestions(context.Background(), "nerves", "5")
	require.NoError(t, err)

	assert.Equal(t, "1. Which nerve...", resp.Text)
	require.Len(t, p.requests, 1)
	assert.Equal(t, "generate 5 mcqs questions for this topic: nerves", p.requests[0].Prompt)
}

func TestFallback(t *testing.T) {
	empty := fmt.Errorf("no candidates returned from Gemini: %w", providers.ErrEmptyResponse)
	img := &models.UploadedImage{Filename: "heart.png", Format: "png"}

	tests := []struct {
		name     string
		call     func(s *Service) (models.ModelResponse, error)
		expected string
	}{
		{
			name:     "topic",
			call:     func(s *Service) (models.ModelResponse, error) { return s.AnalyzeTopic(context.Background(), "femur") },
			expected: "No analysis available for femur.",
		},
		{
			name:     "empty topic",
			call:     func(s *Service) (models.ModelResponse, error) { return s.AnalyzeTopic(context.Background(), "") },
			expected: "No analysis available for .",
		},
		{
			name: "questions",
			call: func(s *Service) (models.ModelResponse, error) {
				return s.GenerateQuestions(context.Background(), "nerves", "10")
			},
			expected: "No analysis available for nerves.",
		},
		{
			name:     "image",
			call:     func(s *Service) (models.ModelResponse, error) { return s.AnalyzeImage(context.Background(), img) },
			expected: "No analysis available for the uploaded image.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(&fakeProvider{err: empty})

			resp, err := tt.call(s)
			require.NoError(t, err)
			assert.True(t, resp.Fallback)
			assert.Equal(t, tt.expected, resp.Text)
		})
	}
}

func TestTransportErrorPropagates(t *testing.T) {
	cause := errors.New("connection refused")
	s := NewService(&fakeProvider{err: cause})

	_, err := s.AnalyzeTopic(context.Background(), "femur")
	assert.ErrorIs(t, err, cause)
}

func TestAnalyzeImage(t *testing.T) {
	img := &models.UploadedImage{Filename: "skull.png", Format: "png", Data: []byte{1, 2, 3}}

	t.Run("image not attached by default", func(t *testing.T) {
		p := &fakeProvider{text: "A skull."}
		s := NewService(p)

		resp, err := s.AnalyzeImage(context.Background(), img)
		require.NoError(t, err)
		assert.Equal(t, "A skull.", resp.Text)

		require.Len(t, p.requests, 1)
		assert.Equal(t, "Explain the anatomy of the structure in this image.", p.requests[0].Prompt)
		assert.Nil(t, p.requests[0].Image)
	})

	t.Run("requests are identical for different images", func(t *testing.T) {
		p := &fakeProvider{text: "x"}
		s := NewService(p)

		other := &models.UploadedImage{Filename: "hand.png", Format: "png", Data: []byte{9}}
		_, err := s.AnalyzeImage(context.Background(), img)
		require.NoError(t, err)
		_, err = s.AnalyzeImage(context.Background(), other)
		require.NoError(t, err)

		require.Len(t, p.requests, 2)
		assert.Equal(t, p.requests[0], p.requests[1])
	})

	t.Run("image attached when enabled", func(t *testing.T) {
		p := &fakeProvider{text: "A skull."}
		s := NewService(p, WithImageAttached(true))

		_, err := s.AnalyzeImage(context.Background(), img)
		require.NoError(t, err)
		require.Len(t, p.requests, 1)
		assert.Same(t, img, p.requests[0].Image)
	})

	t.Run("nil image", func(t *testing.T) {
		p := &fakeProvider{}
		_, err := NewService(p).AnalyzeImage(context.Background(), nil)
		assert.Error(t, err)
		assert.Empty(t, p.requests)
	})
}
