package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gem-curator-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Generate(t *testing.T) {
	var got goopenai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{
			Choices: []goopenai.ChatCompletionChoice{{
				Message: goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: "A hidden gem."},
			}},
		})
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL + "/v1/", APIKey: "sk-test", Model: "gpt-4o-mini"})
	out, err := p.Generate(context.Background(), "why this track?", llm.WithJSONMode(), llm.WithMaxTokens(32))

	require.NoError(t, err)
	assert.Equal(t, "A hidden gem.", out)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 32, got.MaxTokens)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, goopenai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, goopenai.ChatMessageRoleUser, got.Messages[0].Role)
}

func TestProvider_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	_, err := NewProvider(Config{BaseURL: srv.URL + "/v1", APIKey: "k", Model: "m"}).Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestProvider_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewProvider(Config{BaseURL: srv.URL + "/v1", APIKey: "k", Model: "m"}).Generate(context.Background(), "hi")

	assert.EqualError(t, err, "openai returned no choices")
}
