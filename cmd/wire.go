package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"news-reporter/internal/ai"
	"news-reporter/internal/config"
	"news-reporter/internal/document"
	"news-reporter/internal/markdown"
	"news-reporter/internal/newsapi"
	"news-reporter/internal/notify"
	"news-reporter/internal/notion"
	"news-reporter/internal/publish"
	"news-reporter/internal/redisclient"
	"news-reporter/internal/report"
	"news-reporter/internal/retry"
	"news-reporter/internal/schedule"
	"news-reporter/internal/scrape"
	"news-reporter/internal/search"
	"news-reporter/internal/storage"
)

func buildRetry(cfg config.Config) *retry.Policy {
	p := retry.Default()
	p.MaxAttempts = cfg.Retry.MaxAttempts
	p.Cooldown = config.Duration(cfg.Retry.Cooldown, p.Cooldown)
	p.JitterMin = config.Duration(cfg.Retry.JitterMin, p.JitterMin)
	p.JitterMax = config.Duration(cfg.Retry.JitterMax, p.JitterMax)
	return p
}

func newsAPIClient(cfg config.Config) *newsapi.Client {
	return newsapi.NewClient(cfg.NewsAPI.BaseURL, cfg.NewsAPI.APIKey, config.Duration(cfg.NewsAPI.Timeout, 30*time.Second))
}

func notionClient(cfg config.Config) *notion.Client {
	return notion.New(cfg.Notion.BaseURL, cfg.Notion.Token, config.Duration(cfg.Notion.Timeout, 30*time.Second)).
		WithVersion(cfg.Notion.Version)
}

func buildPublisher(cfg config.Config, name string, rp *retry.Policy) (publish.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "notion":
		if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
			return nil, fmt.Errorf("notion publisher requires notion.token and notion.database_id (NOTION_TOKEN, NOTION_DATABASE_ID)")
		}
		return &notion.Publisher{Client: notionClient(cfg), DatabaseID: cfg.Notion.DatabaseID, Retry: rp}, nil
	case "markdown":
		return &markdown.Publisher{Dir: cfg.Publish.OutputDir}, nil
	default:
		return nil, fmt.Errorf("unknown publisher %q", name)
	}
}

func buildNotifier(cfg config.Config, rp *retry.Policy) *notify.Dispatcher {
	return notify.NewDispatcher(rp,
		&notify.Console{Out: os.Stdout},
		notify.NewEmail(notify.EmailConfig{
			Host:     cfg.SMTP.Server,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.Recipient,
		}),
		notify.NewChat(cfg.Chat.WebhookURL, 10*time.Second),
	)
}

func buildAssembler(cfg config.Config, rp *retry.Policy) *document.Assembler {
	a := &document.Assembler{Language: cfg.Report.Language, TitleTemplate: cfg.Report.TitleTemplate, Retry: rp}
	if cfg.OpenAI.APIKey != "" {
		s, err := ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL, Retry: rp})
		if err != nil {
			slog.Warn("cmd: summarizer disabled", "err", err)
		} else {
			a.Summarizer = s
		}
	}
	if cfg.Report.FetchDetails {
		a.Details = scrape.NewFetcher(config.Duration(cfg.Report.DetailTimeout, 5*time.Second))
	}
	return a
}

// buildPipeline wires one pipeline for the process; publisherName overrides
// publish.provider when non-empty.
func buildPipeline(cfg config.Config, publisherName string) (*report.Pipeline, error) {
	if cfg.NewsAPI.APIKey == "" {
		return nil, fmt.Errorf("newsapi.api_key (NEWS_API_KEY) is required")
	}
	rp := buildRetry(cfg)
	if publisherName == "" {
		publisherName = cfg.Publish.Provider
	}
	pub, err := buildPublisher(cfg, publisherName, rp)
	if err != nil {
		return nil, err
	}
	return &report.Pipeline{
		Search:            search.New(newsAPIClient(cfg), rp),
		Assembler:         buildAssembler(cfg, rp),
		Publisher:         pub,
		Notifier:          buildNotifier(cfg, rp),
		DefaultMaxResults: cfg.Report.MaxResults,
		DefaultLanguage:   cfg.Report.Language,
	}, nil
}

// buildJobStore returns the configured store and a close func.
func buildJobStore(ctx context.Context, cfg config.Config) (schedule.JobStore, schedule.Ledger, func(), error) {
	switch cfg.Scheduler.Store {
	case "redis":
		rdb, err := redisclient.Connect(ctx, cfg.Redis, 3*time.Second)
		if err != nil {
			return nil, nil, nil, err
		}
		return storage.NewRedisJobStore(rdb), storage.NewRedisLedger(rdb), closeRedis(rdb), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Scheduler.SQLitePath), 0o755); err != nil {
			return nil, nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		st, err := storage.OpenSQLite(cfg.Scheduler.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return st, schedule.NewMemoryLedger(), func() { _ = st.Close() }, nil
	default:
		return schedule.NewMemoryStore(), schedule.NewMemoryLedger(), func() {}, nil
	}
}

func closeRedis(rdb *redis.Client) func() {
	return func() { _ = rdb.Close() }
}

const configJobPrefix = "config-"

// configuredJobs turns scheduler.jobs into jobs with stable ids, so that
// restarts with a persistent store do not duplicate them.
func configuredJobs(cfg config.Config) ([]schedule.Job, error) {
	out := make([]schedule.Job, 0, len(cfg.Scheduler.Jobs))
	for i, jc := range cfg.Scheduler.Jobs {
		tod, err := schedule.ParseTimeOfDay(jc.Time)
		if err != nil {
			return nil, fmt.Errorf("scheduler.jobs[%d]: %w", i, err)
		}
		req := report.Request{
			Topic:          jc.Topic,
			MaxResults:     jc.MaxResults,
			Language:       jc.Language,
			IncludeImages:  cfg.Report.IncludeImages,
			IncludeSummary: cfg.Report.IncludeSummary,
			Notify:         jc.Notify,
		}
		if jc.IncludeImages != nil {
			req.IncludeImages = *jc.IncludeImages
		}
		if jc.IncludeSummary != nil {
			req.IncludeSummary = *jc.IncludeSummary
		}
		out = append(out, schedule.Job{ID: fmt.Sprintf("%s%d", configJobPrefix, i), TimeOfDay: tod, Request: req})
	}
	return out, nil
}

// seedJobs upserts jobs into store and removes stored config jobs that are
// no longer in jobs. Jobs added through the schedule command are kept.
func seedJobs(ctx context.Context, store schedule.JobStore, jobs []schedule.Job) error {
	want := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		want[j.ID] = true
	}
	stored, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, j := range stored {
		if !strings.HasPrefix(j.ID, configJobPrefix) || want[j.ID] {
			continue
		}
		if err := store.Remove(ctx, j.ID); err != nil {
			return fmt.Errorf("remove stale job %s: %w", j.ID, err)
		}
		slog.Info("scheduler: removed stale config job", "id", j.ID, "topic", j.Topic(), "time", j.TimeOfDay)
	}
	for _, j := range jobs {
		if err := store.Add(ctx, j); err != nil {
			return err
		}
	}
	return nil
}
