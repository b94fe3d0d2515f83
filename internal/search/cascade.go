// Package search runs the ordered fallback strategies against a SearchProvider.
package search

import (
	"context"
	"log/slog"
	"time"

	"news-reporter/internal/article"
	"news-reporter/internal/model"
	"news-reporter/internal/retry"
)

const (
	MinResults = 5
	MaxResults = 100
	// RecentWindow bounds the first strategy to the trailing week.
	RecentWindow = 7 * 24 * time.Hour
)

// Provider is the single capability of an article search API.
type Provider interface {
	Search(ctx context.Context, q model.SearchQuery) (model.SearchResponse, error)
}

// Strategy builds the provider query for one cascade step.
type Strategy struct {
	Name  string
	Build func(topic, language string, pageSize int, now time.Time) model.SearchQuery
}

// DefaultStrategies returns recent, unbounded and headlines, in that order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "recent", Build: func(topic, language string, pageSize int, now time.Time) model.SearchQuery {
			to := now
			from := now.Add(-RecentWindow)
			return model.SearchQuery{
				Endpoint: model.EndpointEverything,
				Query:    topic,
				Language: language,
				From:     &from,
				To:       &to,
				SortBy:   "publishedAt",
				PageSize: pageSize,
			}
		}},
		{Name: "unbounded", Build: func(topic, language string, pageSize int, _ time.Time) model.SearchQuery {
			return model.SearchQuery{
				Endpoint: model.EndpointEverything,
				Query:    topic,
				Language: language,
				SortBy:   "publishedAt",
				PageSize: pageSize,
			}
		}},
		{Name: "headlines", Build: func(topic, language string, pageSize int, _ time.Time) model.SearchQuery {
			return model.SearchQuery{
				Endpoint: model.EndpointTopHeadlines,
				Query:    topic,
				Language: language,
				PageSize: pageSize,
			}
		}},
	}
}

// Cascade tries each strategy in order and stops at the first non-empty result.
type Cascade struct {
	Provider   Provider
	Strategies []Strategy
	Retry      *retry.Policy
	Now        func() time.Time
}

// New creates a cascade with the default strategies.
func New(p Provider, r *retry.Policy) *Cascade {
	return &Cascade{Provider: p, Strategies: DefaultStrategies(), Retry: r, Now: time.Now}
}

// ClampResults coerces n into [MinResults, MaxResults].
func ClampResults(n int) int {
	if n < MinResults {
		return MinResults
	}
	if n > MaxResults {
		return MaxResults
	}
	return n
}

// Search never fails: provider errors are logged and yield an empty result.
func (c *Cascade) Search(ctx context.Context, topic, language string, maxResults int) model.SearchResult {
	n := ClampResults(maxResults)
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	slog.Info("search: starting cascade", "topic", topic, "language", language, "max_results", n)
	for _, st := range c.Strategies {
		q := st.Build(topic, language, n, now)
		resp, err := retry.Value(ctx, c.Retry, "search:"+st.Name, func(ctx context.Context) (model.SearchResponse, error) {
			return c.Provider.Search(ctx, q)
		})
		if err != nil {
			slog.Error("search: strategy failed, aborting cascade", "strategy", st.Name, "topic", topic, "err", err)
			return model.SearchResult{Strategy: st.Name}
		}
		if len(resp.Articles) == 0 {
			slog.Info("search: no results, widening", "strategy", st.Name, "topic", topic)
			continue
		}
		articles := article.Normalize(resp.Articles, n)
		slog.Info("search: found articles", "strategy", st.Name, "topic", topic, "count", len(articles))
		return model.SearchResult{Articles: articles, Strategy: st.Name, Count: len(articles)}
	}
	slog.Warn("search: all strategies empty", "topic", topic)
	return model.SearchResult{}
}
