package embedding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "text-embedding-3-small"
	DefaultDimension = 1536
	httpTimeout      = 30 * time.Second
)

// Options configures the REST client. Zero-valued fields fall back to
// the OpenAI defaults, so any OpenAI-compatible endpoint (LiteLLM,
// vLLM, Ollama's /v1) works by overriding BaseURL and Model.
type Options struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
}

type openAIClient struct {
	client     *http.Client
	log        zerolog.Logger
	baseURL    string
	apiKey     string
	modelName  string
	dimensions int
}

type embedRequest struct {
	Input          string `json:"input"`
	Model          string `json:"model"`
	EncodingFormat string `json:"encoding_format"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

// NewOpenAI builds a Service talking to an OpenAI-compatible
// /embeddings endpoint.
func NewOpenAI(opts Options, log zerolog.Logger) Service {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Dimensions <= 0 {
		opts.Dimensions = DefaultDimension
	}
	return &openAIClient{
		client:     &http.Client{Timeout: httpTimeout},
		log:        log.With().Str("component", "embedding").Logger(),
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		modelName:  opts.Model,
		dimensions: opts.Dimensions,
	}
}

func (c *openAIClient) Dimensions() int { return c.dimensions }

func (c *openAIClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text)
}

func (c *openAIClient) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text)
}

func (c *openAIClient) embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("embedding input is empty")
	}

	body, err := json.Marshal(embedRequest{
		Input:          text,
		Model:          c.modelName,
		EncodingFormat: "float",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send embedding request to %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding API error (model=%s, status=%d): %s",
			c.modelName, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response from %s: %w", c.baseURL, err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding API returned no results for model %s", c.modelName)
	}

	vec := parsed.Data[0].Embedding
	if len(vec) != c.dimensions {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d (model=%s)",
			len(vec), c.dimensions, c.modelName)
	}
	return vec, nil
}
