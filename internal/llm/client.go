// Package llm provides the gateway to the generative model service. It owns
// response-shape validation and the transport/malformed failure split; prompt
// construction and required-field checks live in internal/prompts.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model all tasks use.
const DefaultModel = "gemini-2.0-flash"

// DefaultTimeout bounds a single generation call. The original applied no
// timeout at all; every call here runs under a deadline.
const DefaultTimeout = 90 * time.Second

// Fixed generation parameters. Only temperature is caller-controlled.
const (
	topP            float32 = 0.95
	topK            int32   = 60
	maxOutputTokens int32   = 2048
)

// Client is the request/response gateway to the generative service. The call
// blocks for its duration; presenting a busy indicator is the UI's concern.
type Client interface {
	// Generate sends a single user-role prompt and returns the extracted
	// text verbatim. Failures are *TransportError or *MalformedResponseError.
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a Gemini-backed client. A zero timeout falls back
// to DefaultTimeout.
func NewGeminiClient(ctx context.Context, apiKey string, timeout time.Duration) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   DefaultModel,
		timeout: timeout,
	}, nil
}

// Generate sends the prompt with the caller's temperature and the fixed
// topP/topK/token ceiling, expecting plain text back.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(float32(temperature))
	model.SetTopP(topP)
	model.SetTopK(topK)
	model.SetMaxOutputTokens(maxOutputTokens)
	model.ResponseMIMEType = "text/plain"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyTransport(err)
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// classifyTransport wraps a call failure as a TransportError, carrying the
// HTTP status when the underlying error is a googleapi error.
func classifyTransport(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &TransportError{StatusCode: apiErr.Code, Cause: err}
	}
	return &TransportError{Cause: err}
}

// extractTextFromResponse extracts text from a Gemini API response. The text
// is returned verbatim; stripping code fences is the prompt's job, not ours.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &MalformedResponseError{Reason: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &MalformedResponseError{Reason: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &MalformedResponseError{Reason: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
