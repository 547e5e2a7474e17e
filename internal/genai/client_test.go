package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const objectSchema = `{"type":"object","properties":{"category":{"type":"string"},"priority":{"type":"string"},"notes":{"type":"string"}}}`

func envelope(t *testing.T, innerText string) string {
	t.Helper()
	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": innerText}},
				},
			},
		},
	}
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, srv.Client())
	require.NoError(t, err)
	return client
}

func TestGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(envelope(t, `{"category":"Work","priority":"High","notes":"due soon"}`)))
	})

	payload, err := client.Generate(context.Background(), Request{
		Prompt: "Categorize this task: Buy milk",
		Schema: objectSchema,
	})
	require.NoError(t, err)

	var got struct {
		Category string `json:"category"`
		Priority string `json:"priority"`
		Notes    string `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "Work", got.Category)
	assert.Equal(t, "High", got.Priority)
	assert.Equal(t, "due soon", got.Notes)

	assert.Equal(t, "/models/"+defaultModel+":generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "Categorize this task: Buy milk", gotReq.Contents[0].Parts[0].Text)
	assert.Equal(t, "application/json", gotReq.GenerationConfig.ResponseMIMEType)
	assert.JSONEq(t, objectSchema, string(gotReq.GenerationConfig.ResponseSchema))
}

func TestGenerateMissingKeyStoredAsIs(t *testing.T) {
	// A payload missing one of the requested keys still passes: the
	// schema does not mark keys required.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(envelope(t, `{"category":"Work"}`)))
	})

	payload, err := client.Generate(context.Background(), Request{Prompt: "p", Schema: objectSchema})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Work"}`, string(payload))
}

func TestGenerateTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Generate(context.Background(), Request{Prompt: "p", Schema: objectSchema})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, nil)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Prompt: "p", Schema: objectSchema})
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestGenerateMalformedEnvelope(t *testing.T) {
	cases := map[string]string{
		"not json":         "oops",
		"no candidates":    `{"candidates":[]}`,
		"no parts":         `{"candidates":[{"content":{"parts":[]}}]}`,
		"empty text":       `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`,
		"missing entirely": `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := client.Generate(context.Background(), Request{Prompt: "p", Schema: objectSchema})
			assert.True(t, errors.Is(err, ErrMalformed), "want ErrMalformed, got %v", err)
		})
	}
}

func TestGenerateParseError(t *testing.T) {
	cases := map[string]string{
		"inner not json":  "not a json document",
		"schema mismatch": `["a","b"]`,
		"wrong types":     `{"category":42}`,
	}
	for name, inner := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(envelope(t, inner)))
			})
			_, err := client.Generate(context.Background(), Request{Prompt: "p", Schema: objectSchema})
			assert.True(t, errors.Is(err, ErrParse), "want ErrParse, got %v", err)
		})
	}
}

func TestGenerateArraySchema(t *testing.T) {
	schema := `{"type":"array","items":{"type":"string"}}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(envelope(t, `["book flights","pack bags"]`)))
	})

	payload, err := client.Generate(context.Background(), Request{Prompt: "p", Schema: schema})
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, []string{"book flights", "pack bags"}, got)
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv(defaultAPIKeyEnv, "")
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestNewClientKeyFromEnv(t *testing.T) {
	t.Setenv("KANBO_TEST_KEY", "env-key")
	client, err := NewClient(Config{APIKeyEnv: "KANBO_TEST_KEY"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "env-key", client.cfg.APIKey)
}
