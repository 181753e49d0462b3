package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/anatomymentor/internal/providers"
)

// DefaultURL is where a local Ollama listens
const DefaultURL = "http://localhost:11434"

// Ollama is a provider for Ollama
type Ollama struct {
	url    string
	config providers.Config
	client *http.Client
}

// New returns a new Ollama provider
func New(url string, config providers.Config) (*Ollama, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("ollama model name not set")
	}
	if url == "" {
		url = DefaultURL
	}

	return &Ollama{
		url:    strings.TrimSuffix(url, "/"),
		config: config,
		client: &http.Client{},
	}, nil
}

type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Images  []string `json:"images,omitempty"`
	Stream  bool     `json:"stream"`
	Options options  `json:"options"`
}

type options struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int32   `json:"num_predict"`
}

// Generate calls /api/generate without streaming
func (o *Ollama) Generate(ctx context.Context, r providers.Request) (string, error) {
	body := generateRequest{
		Model:  o.config.Model,
		Prompt: r.Prompt,
		Stream: false,
		Options: options{
			Temperature: o.config.Temperature,
			NumPredict:  o.config.MaxOutputTokens,
		},
	}
	if r.Image != nil {
		body.Images = []string{base64.StdEncoding.EncodeToString(r.Image.Data)}
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.url+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if response.Response == "" {
		return "", fmt.Errorf("empty response from Ollama: %w", providers.ErrEmptyResponse)
	}

	return response.Response, nil
}
