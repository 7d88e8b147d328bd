package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilyClient_Search(t *testing.T) {
	var gotReq tavilyRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(tavilyResponse{
			Answer: "Paris is the capital of France.",
			Query:  gotReq.Query,
			Results: []tavilyResult{
				{Title: "France <facts>", URL: "https://example.com/france", Content: "Paris & more", Score: 0.9},
			},
		})
	}))
	defer server.Close()

	client := NewTavilyClient("test-key", WithEndpoint(server.URL), WithMaxResults(3))

	result, err := client.Search(context.Background(), "capital of france")
	require.NoError(t, err)

	assert.Equal(t, "capital of france", gotReq.Query)
	assert.Equal(t, "test-key", gotReq.APIKey)
	assert.Equal(t, 3, gotReq.MaxResults)

	// Results are XML-wrapped with escaped text.
	assert.True(t, strings.HasPrefix(result, "<web_search_results>"))
	assert.Contains(t, result, "Paris is the capital of France.")
	assert.Contains(t, result, "France &lt;facts&gt;")
	assert.Contains(t, result, "Paris &amp; more")
	assert.Contains(t, result, `<source rank="1">`)
}

func TestTavilyClient_Search_Sanitization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tavilyResponse{
			Results: []tavilyResult{
				{
					Title:   "Safe title",
					URL:     "https://example.com",
					Content: `before <script>alert("x")</script> after javascript:void(0)`,
				},
			},
		})
	}))
	defer server.Close()

	client := NewTavilyClient("test-key", WithEndpoint(server.URL))

	result, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.NotContains(t, result, "script")
	assert.NotContains(t, result, "javascript:")
	assert.Contains(t, result, "before")
	assert.Contains(t, result, "after")
}

func TestTavilyClient_Search_QueryValidation(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		query   string
		wantErr string
	}{
		{"empty query", "key", "   ", "empty"},
		{"too long", "key", strings.Repeat("q", 501), "too long"},
		{"no api key", "", "valid query", "API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewTavilyClient(tt.apiKey)
			_, err := client.Search(context.Background(), tt.query)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTavilyClient_Search_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTavilyClient("test-key", WithEndpoint(server.URL))

	_, err := client.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestTruncateContent(t *testing.T) {
	assert.Equal(t, "short", truncateContent("short", 500))

	long := strings.Repeat("a", 600)
	got := truncateContent(long, 500)
	assert.Len(t, got, 500)
	assert.True(t, strings.HasSuffix(got, "..."))
}
