package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notesaas/pkg/llm"
)

func TestOpenAI_Generate(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Otters hold hands while sleeping.  "}}]}`))
	}))
	t.Cleanup(srv.Close)

	gen, err := llm.NewOpenAI(llm.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), "Write about otters", llm.Options{
		Temperature: 0.6,
		MaxTokens:   1000,
		Stop:        []string{"\n\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Otters hold hands while sleeping.", text)

	assert.Equal(t, llm.DefaultOpenAIModel, got["model"])
	assert.InDelta(t, 0.6, got["temperature"], 0.0001)
	assert.Equal(t, float64(1000), got["max_tokens"])
	assert.Equal(t, []any{"\n\n"}, got["stop"])
	assert.Equal(t, float64(1), got["n"])
	assert.Equal(t, []any{map[string]any{"role": "user", "content": "Write about otters"}}, got["messages"])
}

func TestOpenAI_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, llm.ErrRateLimited},
		{"server error", http.StatusInternalServerError, `oops`, llm.ErrGenerationFailed},
		{"no choices", http.StatusOK, `{"choices":[]}`, llm.ErrEmptyCompletion},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, llm.ErrEmptyCompletion},
		{"bad json", http.StatusOK, `{`, llm.ErrGenerationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			gen, err := llm.NewOpenAI(llm.OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)
			_, err = gen.Generate(context.Background(), "p", llm.Options{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := llm.New(context.Background(), llm.Config{Provider: "openai"})
	assert.ErrorIs(t, err, llm.ErrAPIKeyRequired)

	_, err = llm.New(context.Background(), llm.Config{Provider: "gemini"})
	assert.ErrorIs(t, err, llm.ErrAPIKeyRequired)

	_, err = llm.New(context.Background(), llm.Config{Provider: "claude-via-fax"})
	assert.ErrorIs(t, err, llm.ErrUnknownProvider)

	gen, err := llm.New(context.Background(), llm.Config{Provider: "OpenAI", OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &llm.OpenAI{}, gen)
}
