package generator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBackend answers every request with status and body and counts hits.
func countingBackend(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func generateWith(t *testing.T, llm LLMClient) BriefResult {
	t.Helper()
	g, err := NewGenerator(llm)
	require.NoError(t, err)
	res, err := g.Generate(context.Background(), scenarioRequest())
	require.NoError(t, err)
	return res
}

func TestOpenAILLMSingleAttemptOnServerError(t *testing.T) {
	srv, hits := countingBackend(t, http.StatusServiceUnavailable,
		`{"error":{"message":"overloaded","type":"server_error"}}`)

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	res := generateWith(t, llm)
	assert.False(t, res.OK())
	assert.Contains(t, res.Message(), BackendFailurePrefix)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenAILLMReturnsContentUnchanged(t *testing.T) {
	srv, hits := countingBackend(t, http.StatusOK, `{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  # Brief  "}}]
	}`)

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	res := generateWith(t, llm)
	require.True(t, res.OK(), res.Message())
	assert.Equal(t, "  # Brief  ", res.Brief())
	assert.Equal(t, int32(1), hits.Load())
}

func newTestGemini(t *testing.T, baseURL string) *GeminiLLM {
	t.Helper()
	llm, err := NewGeminiLLM(context.Background(), &LLMSettings{Provider: "gemini", Model: "gemini-test", APIKey: "g-test", BaseURL: baseURL + "/"})
	require.NoError(t, err)
	return llm
}

func TestGeminiLLMSingleAttemptOnRateLimit(t *testing.T) {
	srv, hits := countingBackend(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)

	res := generateWith(t, newTestGemini(t, srv.URL))
	assert.False(t, res.OK())
	assert.Contains(t, res.Message(), BackendFailurePrefix)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGeminiLLMEmptyCandidatesIsFailure(t *testing.T) {
	srv, hits := countingBackend(t, http.StatusOK, `{"candidates":[]}`)

	res := generateWith(t, newTestGemini(t, srv.URL))
	assert.False(t, res.OK())
	assert.Contains(t, res.Message(), BackendFailurePrefix)
	assert.Contains(t, res.Message(), "empty response")
	assert.Equal(t, int32(1), hits.Load())
}

func TestGeminiLLMReturnsTextUnchanged(t *testing.T) {
	srv, hits := countingBackend(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "  hi  "}]}, "finishReason": "STOP"}]
	}`)

	res := generateWith(t, newTestGemini(t, srv.URL))
	require.True(t, res.OK(), res.Message())
	assert.Equal(t, "  hi  ", res.Brief())
	assert.Equal(t, int32(1), hits.Load())
}
