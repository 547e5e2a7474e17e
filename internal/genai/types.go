package genai

import (
	"encoding/json"
	"time"
)

const (
	defaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel     = "gemini-2.0-flash"
	defaultAPIKeyEnv = "GEMINI_API_KEY"
	defaultTimeout   = 60 * time.Second
)

// Config is generative-language API client configuration.
type Config struct {
	Model     string
	BaseURL   string
	APIKey    string
	APIKeyEnv string
	Timeout   time.Duration
}

// Request is a single structured-output generation request. Schema is a
// JSON schema document describing the shape the service must return; the
// same document is used to check the inner payload after decoding.
type Request struct {
	Prompt string
	Schema string
}

// generateRequest is the wire request for models/<model>:generateContent.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

// generateResponse is the wire response envelope. The requested JSON
// document arrives double-encoded: the envelope is JSON, and the single
// text part holds the schema-shaped JSON as a string.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
