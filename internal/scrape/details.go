// Package scrape fetches article pages and extracts enrichment details.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Details holds what could be extracted from an article page.
type Details struct {
	MainImage   string
	FullContent string
}

// Fetcher downloads article pages with a short timeout.
type Fetcher struct {
	http     *http.Client
	maxBytes int64
}

// NewFetcher creates a fetcher. A non-positive timeout defaults to 5s.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Fetcher{
		http:     &http.Client{Timeout: timeout},
		maxBytes: 4 << 20,
	}
}

// Details fetches u and extracts og:image and the main text block.
func (f *Fetcher) Details(ctx context.Context, u string) (Details, error) {
	if f == nil {
		return Details{}, errors.New("nil fetcher")
	}
	if _, err := url.ParseRequestURI(u); err != nil {
		return Details{}, fmt.Errorf("invalid url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Details{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := f.http.Do(req)
	if err != nil {
		return Details{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Details{}, fmt.Errorf("article fetch failed: status=%d", resp.StatusCode)
	}
	doc, err := html.Parse(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return Details{}, fmt.Errorf("parse html: %w", err)
	}
	return Extract(doc), nil
}

// Extract pulls og:image and the text of <article>, <main> or div.content.
func Extract(doc *html.Node) Details {
	var d Details
	var article, main, content *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if d.MainImage == "" && attr(n, "property") == "og:image" {
					d.MainImage = strings.TrimSpace(attr(n, "content"))
				}
			case "article":
				if article == nil {
					article = n
				}
			case "main":
				if main == nil {
					main = n
				}
			case "div":
				if content == nil && hasClass(n, "content") {
					content = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	for _, n := range []*html.Node{article, main, content} {
		if n != nil {
			d.FullContent = textOf(n)
			break
		}
	}
	return d
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textOf joins non-empty text nodes with newlines, skipping script and style.
func textOf(n *html.Node) string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				lines = append(lines, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(lines, "\n")
}
