package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultVersion = "2022-06-28"

// Client is a minimal HTTP client for the Notion API.
type Client struct {
	baseURL string
	token   string
	version string
	http    *http.Client
}

// New creates a new Notion client.
// baseURL should be like "https://api.notion.com/v1" (no trailing slash).
func New(baseURL, token string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.notion.com/v1"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		version: DefaultVersion,
		http:    &http.Client{Timeout: timeout},
	}
}

// WithVersion optionally overrides the Notion-Version header.
func (c *Client) WithVersion(version string) *Client {
	c2 := *c
	if strings.TrimSpace(version) != "" {
		c2.version = version
	}
	return &c2
}

// Page is the subset of a created page we use.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Database is the subset of a retrieved database we use.
type Database struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title []struct {
		PlainText string `json:"plain_text"`
	} `json:"title"`
}

// Name returns the plain-text database title.
func (d Database) Name() string {
	var b strings.Builder
	for _, t := range d.Title {
		b.WriteString(t.PlainText)
	}
	if b.Len() == 0 {
		return "Untitled"
	}
	return b.String()
}

// User is the bot user returned by users/me.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreatePage creates a page under the database with a title property and children.
func (c *Client) CreatePage(ctx context.Context, databaseID, title string, children []map[string]any) (Page, error) {
	params := map[string]any{
		"parent": map[string]any{"database_id": databaseID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": []map[string]any{
					{"text": map[string]any{"content": title}},
				},
			},
		},
	}
	if len(children) > 0 {
		params["children"] = children
	}
	var out Page
	if err := c.do(ctx, http.MethodPost, "/pages", params, &out); err != nil {
		return Page{}, fmt.Errorf("create page: %w", err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return Page{}, errors.New("create page: missing id in response")
	}
	return out, nil
}

// AppendChildren appends blocks to an existing block or page.
func (c *Client) AppendChildren(ctx context.Context, blockID string, children []map[string]any) error {
	if strings.TrimSpace(blockID) == "" {
		return errors.New("empty block id")
	}
	if err := c.do(ctx, http.MethodPatch, "/blocks/"+blockID+"/children", map[string]any{"children": children}, nil); err != nil {
		return fmt.Errorf("append children: %w", err)
	}
	return nil
}

// RetrieveDatabase fetches database metadata, confirming it is reachable.
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (Database, error) {
	var out Database
	if err := c.do(ctx, http.MethodGet, "/databases/"+databaseID, nil, &out); err != nil {
		return Database{}, fmt.Errorf("retrieve database: %w", err)
	}
	return out, nil
}

// Me returns the bot user bound to the token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return User{}, fmt.Errorf("users/me: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil {
		return errors.New("nil notion client")
	}
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var ae apiError
		if json.Unmarshal(b, &ae) == nil && ae.Code != "" {
			return fmt.Errorf("status=%d code=%s: %s", resp.StatusCode, ae.Code, ae.Message)
		}
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
