// Package genai is a client for a generative-language HTTP service that
// returns JSON documents matching a requested schema.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Error classes for a failed generation attempt. Callers branch on these
// to report which decode stage rejected the response.
var (
	// ErrTransport covers network failures and non-2xx statuses.
	ErrTransport = errors.New("genai: transport error")
	// ErrMalformed covers 2xx responses whose envelope lacks the
	// candidate text path.
	ErrMalformed = errors.New("genai: malformed response")
	// ErrParse covers candidate text that is not valid JSON for the
	// requested schema.
	ErrParse = errors.New("genai: response parse error")
)

// Client calls the generateContent endpoint for one-shot structured output.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient constructs a generative-language client.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		envKey := strings.TrimSpace(cfg.APIKeyEnv)
		if envKey == "" {
			envKey = defaultAPIKeyEnv
		}
		apiKey = strings.TrimSpace(os.Getenv(envKey))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("genai api key is required (set api_key or %s)", defaultAPIKeyEnv)
	}
	cfg.APIKey = apiKey

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

// Generate sends one request and returns the inner schema-shaped JSON
// document. Exactly one network call is made; there is no retry.
func (c *Client) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   json.RawMessage(req.Schema),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	text, err := decodeEnvelope(respBody)
	if err != nil {
		return nil, err
	}
	return decodePayload(text, req.Schema)
}

// decodeEnvelope is stage one: extract the single text fragment from the
// transport envelope.
func decodeEnvelope(body []byte) (string, error) {
	var envelope generateResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidate content", ErrMalformed)
	}
	text := strings.TrimSpace(envelope.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate text", ErrMalformed)
	}
	return text, nil
}

// decodePayload is stage two: the fragment must itself be JSON matching
// the requested schema.
func decodePayload(text, schema string) (json.RawMessage, error) {
	var payload json.RawMessage
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: validate schema: %v", ErrParse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, schemaErr := range result.Errors() {
			msgs = append(msgs, schemaErr.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrParse, strings.Join(msgs, "; "))
	}
	return payload, nil
}
