package llm

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

func TestNewAnthropicValidation(t *testing.T) {
	_, err := NewAnthropic("", "model-x")
	assert.Error(t, err)

	_, err = NewAnthropic("key", "")
	assert.Error(t, err)

	client, err := NewAnthropic("key", "model-x")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestCreateMessage(t *testing.T) {
	var captured anthropicRequest
	var capturedHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicBlock{
				{Type: "thinking", Thinking: "considering the diff"},
				{Type: "text", Text: `{"summary":`},
				{Type: "text", Text: `"ok"}`},
			},
		})
	}))
	defer server.Close()

	client, err := NewAnthropic("test-key", "test-model")
	require.NoError(t, err)
	client.WithAPIURL(server.URL)

	msg, err := client.CreateMessage(context.Background(), "review this", MessageOptions{
		MaxTokens:   2048,
		Temperature: 0.2,
	})
	require.NoError(t, err)

	// Text blocks concatenate into content; thinking is kept separately.
	assert.Equal(t, `{"summary":"ok"}`, msg.Content)
	assert.Equal(t, "considering the diff", msg.Reasoning)

	assert.Equal(t, "test-key", capturedHeaders.Get("x-api-key"))
	assert.Equal(t, anthropicAPIVersion, capturedHeaders.Get("anthropic-version"))
	assert.Equal(t, "application/json", capturedHeaders.Get("Content-Type"))

	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, 2048, captured.MaxTokens)
	assert.InDelta(t, 0.2, captured.Temperature, 1e-9)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "review this", captured.Messages[0].Content)
}

func TestCreateMessageDefaultMaxTokens(t *testing.T) {
	var captured anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(anthropicResponse{})
	}))
	defer server.Close()

	client, err := NewAnthropic("key", "model")
	require.NoError(t, err)
	client.WithAPIURL(server.URL)

	_, err = client.CreateMessage(context.Background(), "p", MessageOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4096, captured.MaxTokens)
}

func TestCreateMessageAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid x-api-key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewAnthropic("bad-key", "model")
	require.NoError(t, err)
	client.WithAPIURL(server.URL)

	_, err = client.CreateMessage(context.Background(), "p", MessageOptions{})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "invalid x-api-key")
}

func TestCreateMessageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewAnthropic("key", "model")
	require.NoError(t, err)
	client.WithAPIURL(server.URL)

	_, err = client.CreateMessage(context.Background(), "p", MessageOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")

	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr), "a 503 is not an auth failure")
}
