package google

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/schema"
)

func TestInitializeRequiresAPIKey(t *testing.T) {
	p := &Provider{}
	err := p.Initialize(map[string]string{})
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, llm.ListProviders(), "google")
	assert.Contains(t, llm.GetSupportedModelsForProvider("google"), "gemini-2.5-flash")
}

func TestToGenaiSchema(t *testing.T) {
	out := toGenaiSchema(schema.AnalysisSchema)

	require.NotNil(t, out)
	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, schema.AnalysisSchema.Required, out.Required)
	assert.Equal(t, "score", out.PropertyOrdering[0])
	assert.Equal(t, genai.TypeArray, out.Properties["keywords"].Type)
	assert.Equal(t, genai.TypeString, out.Properties["keywords"].Items.Type)
	assert.Equal(t, []string{"Positive", "Neutral", "Negative"}, out.Properties["sentiment"].Enum)

	list := toGenaiSchema(schema.TopicListSchema)
	assert.Equal(t, genai.TypeArray, list.Type)
	assert.Equal(t, genai.TypeNumber, list.Items.Properties["viralityScore"].Type)

	assert.Nil(t, toGenaiSchema(nil))
}

func TestBuildConfigPlainText(t *testing.T) {
	cfg := buildConfig(llm.CompletionRequest{Prompt: "hi"})
	assert.Empty(t, cfg.ResponseMIMEType)
	assert.Nil(t, cfg.ResponseSchema)
	assert.Nil(t, cfg.Temperature)
	assert.Nil(t, cfg.SystemInstruction)
}

func TestCompleteTextAgainstServer(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)

		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-2.5-flash:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
		  "candidates": [{"content": {"role": "model", "parts": [{"text": "[]"}]}, "finishReason": "STOP"}],
		  "usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 3, "totalTokenCount": 15}
		}`)
	}))
	defer server.Close()

	p := &Provider{}
	require.NoError(t, p.Initialize(map[string]string{
		"api_key":  "test-key",
		"base_url": server.URL + "/",
	}))

	resp, err := p.CompleteText(context.Background(), llm.CompletionRequest{
		Prompt:           "suggest topics",
		ResponseMIMEType: llm.MIMETypeJSON,
		ResponseSchema:   schema.TopicListSchema,
	})
	require.NoError(t, err)

	assert.Equal(t, "[]", resp.Text)
	assert.Equal(t, 15, resp.TokensUsed)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Contains(t, body, "application/json")
	assert.Contains(t, body, "viralityScore")
	assert.Contains(t, body, "suggest topics")
}

func TestCompleteTextTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`)
	}))
	defer server.Close()

	p := &Provider{}
	require.NoError(t, p.Initialize(map[string]string{"api_key": "k", "base_url": server.URL + "/"}))

	_, err := p.CompleteText(context.Background(), llm.CompletionRequest{Prompt: "x"})
	assert.Error(t, err)
}
