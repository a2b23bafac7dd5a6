package llm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notesaas/pkg/llm"
)

func TestGemini_Generate(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  A note about otters.  "}]}}]}`))
	}))
	t.Cleanup(srv.Close)

	gen, err := llm.NewGemini(context.Background(), llm.GeminiConfig{
		APIKey:  "k",
		Model:   "gemini-test",
		BaseURL: srv.URL + "/",
	})
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), "otters", llm.Options{Temperature: 0.6, MaxTokens: 1000, Stop: []string{"\n\n"}})
	require.NoError(t, err)
	assert.Equal(t, "A note about otters.", text)
}

func TestGemini_Timeout(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"too late"}]}}]}`))
		}
	}))
	t.Cleanup(srv.Close)

	gen, err := llm.New(context.Background(), llm.Config{
		Provider:      llm.ProviderGemini,
		Timeout:       50 * time.Millisecond,
		GeminiAPIKey:  "k",
		GeminiModel:   "gemini-test",
		GeminiBaseURL: srv.URL + "/",
	})
	require.NoError(t, err)
	require.IsType(t, &llm.Gemini{}, gen)

	start := time.Now()
	_, err = gen.Generate(context.Background(), "otters", llm.Options{})
	require.ErrorIs(t, err, llm.ErrGenerationFailed)
	assert.Less(t, time.Since(start), 2*time.Second)
}
