package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/anatomymentor/internal/models"
	"github.com/lehigh-university-libraries/anatomymentor/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (f *fakeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.parts = parts
	return f.resp, f.err
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestGenerate(t *testing.T) {
	model := &fakeModel{resp: textResponse(genai.Text("The femur is..."))}
	g := &Gemini{model: model, name: "test-model"}

	text, err := g.Generate(context.Background(), providers.Request{Prompt: "Explain anatomy for this topic: femur"})
	require.NoError(t, err)
	assert.Equal(t, "The femur is...", text)

	require.Len(t, model.parts, 1)
	assert.Equal(t, genai.Text("Explain anatomy for this topic: femur"), model.parts[0])
}

func TestGenerateAttachesImage(t *testing.T) {
	model := &fakeModel{resp: textResponse(genai.Text("A scapula."))}
	g := &Gemini{model: model, name: "test-model"}

	img := &models.UploadedImage{Format: "png", Data: []byte{0x89, 0x50}}
	_, err := g.Generate(context.Background(), providers.Request{Prompt: "p", Image: img})
	require.NoError(t, err)

	require.Len(t, model.parts, 2)
	blob, ok := model.parts[1].(genai.Blob)
	require.True(t, ok, "expected image blob, got %T", model.parts[1])
	assert.Equal(t, "image/png", blob.MIMEType)
	assert.Equal(t, img.Data, blob.Data)
}

func TestGenerateTransportError(t *testing.T) {
	cause := errors.New("quota exceeded")
	g := &Gemini{model: &fakeModel{err: cause}}

	_, err := g.Generate(context.Background(), providers.Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, providers.ErrEmptyResponse)
}

func TestResponseTextEmpty(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{
			name: "nil response",
			resp: nil,
		},
		{
			name: "no candidates",
			resp: &genai.GenerateContentResponse{},
		},
		{
			name: "nil content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
		},
		{
			name: "no parts",
			resp: textResponse(),
		},
		{
			name: "no text parts",
			resp: textResponse(genai.Blob{MIMEType: "image/png"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			assert.ErrorIs(t, err, providers.ErrEmptyResponse)
		})
	}
}

func TestResponseTextJoinsParts(t *testing.T) {
	text, err := responseText(textResponse(genai.Text("Nerves "), genai.Text("carry signals.")))
	require.NoError(t, err)
	assert.Equal(t, "Nerves carry signals.", text)
}

func TestConfigure(t *testing.T) {
	model := &genai.GenerativeModel{}
	configure(model, providers.Config{
		Model:           "gemini-1.5-flash",
		Temperature:     providers.DefaultTemperature,
		MaxOutputTokens: providers.DefaultMaxOutputTokens,
	})

	require.NotNil(t, model.Temperature)
	require.NotNil(t, model.MaxOutputTokens)
	assert.Equal(t, float32(0.8), *model.Temperature)
	assert.Equal(t, int32(2048), *model.MaxOutputTokens)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), "", providers.Config{Model: "gemini-1.5-flash"})
	assert.Error(t, err)

	_, err = New(context.Background(), "key", providers.Config{})
	assert.Error(t, err)
}
