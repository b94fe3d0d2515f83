package notion

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"news-reporter/internal/document"
	"news-reporter/internal/publish"
	"news-reporter/internal/retry"
)

const (
	// maxChildren is the block limit of a single create or append request.
	maxChildren = 100
	pageURLBase = "https://www.notion.so/"
)

// Publisher creates report pages inside a Notion database.
type Publisher struct {
	Client     *Client
	DatabaseID string
	Retry      *retry.Policy
}

func (p *Publisher) Name() string { return "notion" }

// Publish renders doc, creates the page with the first batch of children and
// appends the rest. Any failure is returned as *publish.Error.
func (p *Publisher) Publish(ctx context.Context, doc document.Document) (string, error) {
	if p == nil || p.Client == nil {
		return "", publish.Wrap("notion", errors.New("notion client not configured"))
	}
	if strings.TrimSpace(p.DatabaseID) == "" {
		return "", publish.Wrap("notion", errors.New("database id not configured"))
	}
	children, err := RenderBlocks(doc.Blocks)
	if err != nil {
		return "", publish.Wrap("notion", err)
	}
	first, rest := children, [][]map[string]any(nil)
	if len(children) > maxChildren {
		first = children[:maxChildren]
		for i := maxChildren; i < len(children); i += maxChildren {
			end := i + maxChildren
			if end > len(children) {
				end = len(children)
			}
			rest = append(rest, children[i:end])
		}
	}
	page, err := retry.Value(ctx, p.Retry, "notion:create-page", func(ctx context.Context) (Page, error) {
		return p.Client.CreatePage(ctx, p.DatabaseID, doc.Title, first)
	})
	if err != nil {
		return "", publish.Wrap("notion", err)
	}
	for _, batch := range rest {
		batch := batch
		if err := p.Retry.Do(ctx, "notion:append-children", func(ctx context.Context) error {
			return p.Client.AppendChildren(ctx, page.ID, batch)
		}); err != nil {
			return "", publish.Wrap("notion", err)
		}
	}
	u := PageURL(page)
	slog.Info("notion: page created", "id", page.ID, "url", u, "blocks", len(children))
	return u, nil
}

// PageURL prefers the URL returned by the API and otherwise derives one
// from the page id with hyphens stripped.
func PageURL(p Page) string {
	if strings.TrimSpace(p.URL) != "" {
		return p.URL
	}
	return pageURLBase + strings.ReplaceAll(p.ID, "-", "")
}
