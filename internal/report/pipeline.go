// Package report runs the search, assemble, publish and notify steps that
// produce one news report.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"news-reporter/internal/document"
	"news-reporter/internal/model"
	"news-reporter/internal/publish"
)

// Status is the machine-checkable outcome of a run.
type Status string

const (
	StatusCompleted     Status = "completed"
	StatusNoArticles    Status = "no_articles"
	StatusPublishFailed Status = "publish_failed"
	StatusCancelled     Status = "cancelled"
)

// Request describes one report.
type Request struct {
	Topic          string   `json:"topic"`
	MaxResults     int      `json:"max_results"`
	Language       string   `json:"language"`
	IncludeImages  bool     `json:"include_images"`
	IncludeSummary bool     `json:"include_summary"`
	Notify         []string `json:"notify,omitempty"`
}

// Result is always returned, whatever happened during the run.
type Result struct {
	Success      bool   `json:"success"`
	Status       Status `json:"status"`
	Message      string `json:"message"`
	DocumentURL  string `json:"document_url,omitempty"`
	ArticleCount int    `json:"article_count"`
}

type Searcher interface {
	Search(ctx context.Context, topic, language string, maxResults int) model.SearchResult
}

type Assembler interface {
	Assemble(ctx context.Context, topic string, articles []model.Article, opts document.Options) document.Document
}

type Notifier interface {
	Notify(ctx context.Context, documentURL, topic, channel string) bool
}

// Pipeline wires the providers of one process. It holds no per-run state
// and is safe for concurrent use.
type Pipeline struct {
	Search    Searcher
	Assembler Assembler
	Publisher publish.Provider
	Notifier  Notifier

	DefaultMaxResults int
	DefaultLanguage   string
}

// Generate runs the steps in order. Only a publish failure makes the result
// unsuccessful; notification outcomes are logged and never change it.
func (p *Pipeline) Generate(ctx context.Context, req Request) Result {
	req = p.withDefaults(req)
	start := time.Now()
	slog.Info("report: generating", "topic", req.Topic, "max_results", req.MaxResults, "language", req.Language,
		"images", req.IncludeImages, "summary", req.IncludeSummary, "publisher", p.Publisher.Name())

	found := p.Search.Search(ctx, req.Topic, req.Language, req.MaxResults)
	if len(found.Articles) == 0 {
		slog.Warn("report: no articles found", "topic", req.Topic)
	}
	if ctx.Err() != nil {
		return cancelled(req.Topic, len(found.Articles), ctx.Err())
	}

	doc := p.Assembler.Assemble(ctx, req.Topic, found.Articles, document.Options{
		IncludeImages:  req.IncludeImages,
		IncludeSummary: req.IncludeSummary,
		Language:       req.Language,
	})
	if ctx.Err() != nil {
		return cancelled(req.Topic, len(found.Articles), ctx.Err())
	}

	// publishing is not interruptible once started
	url, err := p.Publisher.Publish(context.WithoutCancel(ctx), doc)
	if err != nil {
		slog.Error("report: publish failed", "topic", req.Topic, "err", err)
		return Result{
			Success:      false,
			Status:       StatusPublishFailed,
			Message:      fmt.Sprintf("Error creating report: %v", err),
			ArticleCount: len(found.Articles),
		}
	}

	for _, ch := range req.Notify {
		ok := p.Notifier != nil && p.Notifier.Notify(context.WithoutCancel(ctx), url, req.Topic, ch)
		slog.Info("report: notification", "channel", ch, "delivered", ok)
	}

	res := Result{Success: true, DocumentURL: url, ArticleCount: len(found.Articles)}
	if len(found.Articles) == 0 {
		res.Status = StatusNoArticles
		res.Message = fmt.Sprintf("No articles found for '%s'; an empty report was published", req.Topic)
	} else {
		res.Status = StatusCompleted
		res.Message = fmt.Sprintf("Report generated with %d articles", len(found.Articles))
	}
	slog.Info("report: done", "topic", req.Topic, "status", res.Status, "url", url, "articles", res.ArticleCount, "elapsed", time.Since(start))
	return res
}

// Submit starts Generate on its own goroutine and returns a task id at once.
// done, when non-nil, receives the result.
func (p *Pipeline) Submit(ctx context.Context, req Request, done func(id string, res Result)) string {
	id := uuid.NewString()
	go func() {
		res := p.Generate(ctx, req)
		if done != nil {
			done(id, res)
		}
	}()
	return id
}

func (p *Pipeline) withDefaults(req Request) Request {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.MaxResults <= 0 {
		req.MaxResults = p.DefaultMaxResults
	}
	if strings.TrimSpace(req.Language) == "" {
		req.Language = p.DefaultLanguage
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if len(req.Notify) == 0 {
		req.Notify = []string{"console"}
	}
	return req
}

func cancelled(topic string, articles int, err error) Result {
	slog.Warn("report: cancelled before publish", "topic", topic, "articles", articles, "err", err)
	return Result{Status: StatusCancelled, Message: "Report cancelled before publishing", ArticleCount: articles}
}
