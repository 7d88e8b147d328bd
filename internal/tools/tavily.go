package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// TavilyClient searches the web using the Tavily API and formats results as
// context text. No result caching: the pipeline requires every search to
// re-execute, so stale results never leak into later turns.
type TavilyClient struct {
	apiKey            string
	endpoint          string
	maxResults        int
	httpClient        *http.Client
	dangerousPatterns []*regexp.Regexp
}

const defaultTavilyEndpoint = "https://api.tavily.com/search"

// TavilyOption configures the TavilyClient.
type TavilyOption func(*TavilyClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) TavilyOption {
	return func(t *TavilyClient) { t.httpClient = client }
}

// WithEndpoint overrides the API endpoint (used by tests).
func WithEndpoint(endpoint string) TavilyOption {
	return func(t *TavilyClient) { t.endpoint = endpoint }
}

// WithMaxResults sets how many results to request (clamped to 1..10).
func WithMaxResults(n int) TavilyOption {
	return func(t *TavilyClient) {
		if n < 1 {
			n = 1
		} else if n > 10 {
			n = 10
		}
		t.maxResults = n
	}
}

// NewTavilyClient creates a Tavily-backed searcher.
func NewTavilyClient(apiKey string, opts ...TavilyOption) *TavilyClient {
	t := &TavilyClient{
		apiKey:     apiKey,
		endpoint:   defaultTavilyEndpoint,
		maxResults: 5,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	t.compileDangerousPatterns()
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ Searcher = (*TavilyClient)(nil)

// compileDangerousPatterns compiles regex patterns for content sanitization.
func (t *TavilyClient) compileDangerousPatterns() {
	patterns := []string{
		`<script[^>]*>.*?</script>`, // Script tags
		`javascript:`,               // JS protocol
		`on\w+\s*=`,                 // Event handlers
		`data:\s*text/html`,         // Data URLs with HTML
		`\x00`,                      // Null bytes
		`<iframe[^>]*>`,
		`<object[^>]*>`,
		`<embed[^>]*>`,
	}
	for _, p := range patterns {
		if re, err := regexp.Compile("(?i)" + p); err == nil {
			t.dangerousPatterns = append(t.dangerousPatterns, re)
		}
	}
}

// Search runs the query against Tavily and returns XML-wrapped result text.
func (t *TavilyClient) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("search query cannot be empty")
	}
	if len(query) > 500 {
		return "", fmt.Errorf("search query too long (max 500 characters)")
	}
	if t.apiKey == "" {
		return "", fmt.Errorf("search API key not configured")
	}

	resp, err := t.call(ctx, &tavilyRequest{
		APIKey:        t.apiKey,
		Query:         query,
		SearchDepth:   "basic",
		MaxResults:    t.maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return "", err
	}

	t.sanitizeResponse(resp)
	return formatResults(resp), nil
}

// Tavily API types.
type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"` // "basic" or "advanced"
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string         `json:"answer"`
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func (t *TavilyClient) call(ctx context.Context, req *tavilyRequest) (*tavilyResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", t.endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api call failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned status %d", httpResp.StatusCode)
	}

	var resp tavilyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

// formatResults wraps results in XML so the response model treats them as
// passive data rather than instructions.
func formatResults(resp *tavilyResponse) string {
	var sb strings.Builder

	sb.WriteString("<web_search_results>\n")
	if resp.Answer != "" {
		sb.WriteString("  <summary>\n")
		sb.WriteString(fmt.Sprintf("    %s\n", escapeXML(resp.Answer)))
		sb.WriteString("  </summary>\n")
	}
	sb.WriteString("  <sources>\n")
	for i, r := range resp.Results {
		sb.WriteString(fmt.Sprintf("    <source rank=\"%d\">\n", i+1))
		sb.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(r.Title)))
		sb.WriteString(fmt.Sprintf("      <url>%s</url>\n", escapeXML(r.URL)))
		sb.WriteString(fmt.Sprintf("      <content>%s</content>\n", escapeXML(truncateContent(r.Content, 500))))
		sb.WriteString("    </source>\n")
	}
	sb.WriteString("  </sources>\n")
	sb.WriteString("</web_search_results>")
	return sb.String()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

func truncateContent(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func (t *TavilyClient) sanitizeResponse(resp *tavilyResponse) {
	resp.Answer = t.sanitizeText(resp.Answer)
	for i := range resp.Results {
		resp.Results[i].Title = t.sanitizeText(resp.Results[i].Title)
		resp.Results[i].Content = t.sanitizeText(resp.Results[i].Content)
		// URLs are validated, not sanitized (would break them)
	}
}

func (t *TavilyClient) sanitizeText(text string) string {
	for _, pattern := range t.dangerousPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
