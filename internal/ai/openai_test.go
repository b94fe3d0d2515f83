package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSummarizeItemRequest(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  A short summary.  "}}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(Config{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	out, err := c.SummarizeItem(context.Background(), "Title", "Some body text", "es")
	if err != nil {
		t.Fatalf("SummarizeItem: %v", err)
	}
	if out != "A short summary." {
		t.Errorf("summary = %q", out)
	}
	if got.Model != "gpt-4o-mini" || len(got.Messages) != 2 {
		t.Fatalf("request = %+v", got)
	}
	if !strings.Contains(got.Messages[0].Content, "Spanish") {
		t.Errorf("system prompt = %q", got.Messages[0].Content)
	}
	if !strings.Contains(got.Messages[1].Content, "Some body text") {
		t.Errorf("user prompt = %q", got.Messages[1].Content)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(Config{Model: "m"}); err == nil {
		t.Fatal("expected error without api key")
	}
}
