package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"news-reporter/internal/model"
)

// Client is a minimal NewsAPI client.
// Docs: https://newsapi.org/docs/endpoints
type Client struct {
	baseAPI string
	apiKey  string
	client  *http.Client
}

// NewClient creates a new NewsAPI client. baseAPI should be something like
// "https://newsapi.org/v2". If empty, it defaults to the v2 endpoint.
func NewClient(baseAPI, apiKey string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseAPI) == "" {
		baseAPI = "https://newsapi.org/v2"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseAPI: strings.TrimRight(baseAPI, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  &http.Client{Timeout: timeout},
	}
}

// Search runs one query against /everything or /top-headlines.
func (c *Client) Search(ctx context.Context, q model.SearchQuery) (model.SearchResponse, error) {
	var zero model.SearchResponse
	endpoint := q.Endpoint
	if endpoint == "" {
		endpoint = model.EndpointEverything
	}
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if q.From != nil {
		params.Set("from", q.From.Format("2006-01-02"))
	}
	if q.To != nil {
		params.Set("to", q.To.Format("2006-01-02"))
	}
	// sortBy is rejected by top-headlines
	if q.SortBy != "" && endpoint == model.EndpointEverything {
		params.Set("sortBy", q.SortBy)
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	path := fmt.Sprintf("%s/%s?%s", c.baseAPI, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return zero, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return zero, fmt.Errorf("newsapi: read %s: %w", endpoint, err)
	}
	var out model.SearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return zero, fmt.Errorf("newsapi: %s status %d body=%s", endpoint, resp.StatusCode, truncate(string(body), 200))
		}
		return zero, fmt.Errorf("newsapi: decode %s: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || out.Status == "error" {
		return zero, fmt.Errorf("newsapi: %s status %d code=%s: %s", endpoint, resp.StatusCode, out.Code, out.Message)
	}
	slog.Debug("newsapi: query ok", "endpoint", endpoint, "q", q.Query, "total", out.TotalResults, "returned", len(out.Articles))
	return out, nil
}

// Ping issues a one-result query to confirm the key works.
func (c *Client) Ping(ctx context.Context, query, language string) (model.SearchResponse, error) {
	return c.Search(ctx, model.SearchQuery{
		Endpoint: model.EndpointEverything,
		Query:    query,
		Language: language,
		PageSize: 1,
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
