package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// NewsAPIConfig configures the article search provider.
type NewsAPIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"` // duration string, e.g., "30s"
}

// NotionConfig configures the Notion publish provider.
type NotionConfig struct {
	Token      string `mapstructure:"token"`
	DatabaseID string `mapstructure:"database_id"`
	BaseURL    string `mapstructure:"base_url"`
	Version    string `mapstructure:"version"`
	Timeout    string `mapstructure:"timeout"`
}

// OpenAIConfig enables optional article summaries.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// SMTPConfig configures the email notifier.
type SMTPConfig struct {
	Server    string `mapstructure:"server"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	From      string `mapstructure:"from"`
	Recipient string `mapstructure:"recipient"` // comma-separated
}

// ChatConfig configures the chat webhook notifier.
type ChatConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RetryConfig tunes the outbound call policy.
type RetryConfig struct {
	MaxAttempts int    `mapstructure:"max_attempts"`
	Cooldown    string `mapstructure:"cooldown"`
	JitterMin   string `mapstructure:"jitter_min"`
	JitterMax   string `mapstructure:"jitter_max"`
}

// ReportConfig holds per-report defaults.
type ReportConfig struct {
	MaxResults     int    `mapstructure:"max_results"`
	Language       string `mapstructure:"language"`
	IncludeImages  bool   `mapstructure:"include_images"`
	IncludeSummary bool   `mapstructure:"include_summary"`
	TitleTemplate  string `mapstructure:"title_template"` // supports {.Topic} and {.CurrentDate}
	FetchDetails   bool   `mapstructure:"fetch_details"`
	DetailTimeout  string `mapstructure:"detail_timeout"`
}

// PublishConfig selects the publish provider.
type PublishConfig struct {
	Provider  string `mapstructure:"provider"` // notion | markdown
	OutputDir string `mapstructure:"output_dir"`
}

// JobConfig is a statically configured daily report.
type JobConfig struct {
	Topic          string   `mapstructure:"topic"`
	Time           string   `mapstructure:"time"` // HH:MM local
	MaxResults     int      `mapstructure:"max_results"`
	Language       string   `mapstructure:"language"`
	IncludeImages  *bool    `mapstructure:"include_images"`
	IncludeSummary *bool    `mapstructure:"include_summary"`
	Notify         []string `mapstructure:"notify"`
}

// SchedulerConfig controls the tick loop and job persistence.
type SchedulerConfig struct {
	Interval   string      `mapstructure:"interval"`
	Store      string      `mapstructure:"store"` // memory | redis | sqlite
	SQLitePath string      `mapstructure:"sqlite_path"`
	Jobs       []JobConfig `mapstructure:"jobs"`
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	NewsAPI   NewsAPIConfig   `mapstructure:"newsapi"`
	Notion    NotionConfig    `mapstructure:"notion"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Report    ReportConfig    `mapstructure:"report"`
	Publish   PublishConfig   `mapstructure:"publish"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.NewsAPI.BaseURL == "" {
		c.NewsAPI.BaseURL = "https://newsapi.org/v2"
	}
	if c.NewsAPI.Timeout == "" {
		c.NewsAPI.Timeout = "30s"
	}
	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = "https://api.notion.com/v1"
	}
	if c.Notion.Timeout == "" {
		c.Notion.Timeout = "30s"
	}
	c.Notion.DatabaseID = FormatDatabaseID(c.Notion.DatabaseID)
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.SMTP.Server == "" {
		c.SMTP.Server = "smtp.gmail.com"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 2
	}
	if c.Retry.Cooldown == "" {
		c.Retry.Cooldown = "5s"
	}
	if c.Retry.JitterMin == "" {
		c.Retry.JitterMin = "500ms"
	}
	if c.Retry.JitterMax == "" {
		c.Retry.JitterMax = "1500ms"
	}
	if c.Report.MaxResults == 0 {
		c.Report.MaxResults = 10
	}
	if c.Report.Language == "" {
		c.Report.Language = "en"
	}
	if c.Report.TitleTemplate == "" {
		c.Report.TitleTemplate = "News Report: {.Topic} - {.CurrentDate}"
	}
	if c.Report.DetailTimeout == "" {
		c.Report.DetailTimeout = "5s"
	}
	if c.Publish.Provider == "" {
		c.Publish.Provider = "notion"
	}
	if c.Publish.OutputDir == "" {
		c.Publish.OutputDir = "./out"
	}
	if c.Scheduler.Interval == "" {
		c.Scheduler.Interval = "1m"
	}
	if c.Scheduler.Store == "" {
		c.Scheduler.Store = "memory"
	}
	if c.Scheduler.SQLitePath == "" {
		c.Scheduler.SQLitePath = "./data/jobs.db"
	}
	for i := range c.Scheduler.Jobs {
		j := &c.Scheduler.Jobs[i]
		if j.MaxResults == 0 {
			j.MaxResults = c.Report.MaxResults
		}
		if j.Language == "" {
			j.Language = c.Report.Language
		}
		if len(j.Notify) == 0 {
			j.Notify = []string{"console"}
		}
	}
}

// Validate reports settings that would make every run fail.
func (c *Config) Validate() error {
	var problems []string
	for _, d := range []struct{ name, v string }{
		{"newsapi.timeout", c.NewsAPI.Timeout},
		{"notion.timeout", c.Notion.Timeout},
		{"retry.cooldown", c.Retry.Cooldown},
		{"retry.jitter_min", c.Retry.JitterMin},
		{"retry.jitter_max", c.Retry.JitterMax},
		{"report.detail_timeout", c.Report.DetailTimeout},
		{"scheduler.interval", c.Scheduler.Interval},
	} {
		if _, err := time.ParseDuration(d.v); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", d.name, err))
		}
	}
	if d, err := time.ParseDuration(c.Scheduler.Interval); err == nil && (d <= 0 || d > time.Minute) {
		problems = append(problems, fmt.Sprintf("scheduler.interval: %s must be between 0 and 1m", d))
	}
	switch c.Publish.Provider {
	case "notion", "markdown":
	default:
		problems = append(problems, fmt.Sprintf("publish.provider: unknown provider %q", c.Publish.Provider))
	}
	switch c.Scheduler.Store {
	case "memory", "redis", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("scheduler.store: unknown store %q", c.Scheduler.Store))
	}
	for i, j := range c.Scheduler.Jobs {
		if strings.TrimSpace(j.Topic) == "" {
			problems = append(problems, fmt.Sprintf("scheduler.jobs[%d]: empty topic", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Duration parses a duration field, falling back to def when empty or invalid.
func Duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

var hex32 = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// FormatDatabaseID turns a bare 32-hex Notion id (as copied from a page URL)
// into the hyphenated 8-4-4-4-12 form. Other values are returned trimmed.
func FormatDatabaseID(id string) string {
	id = strings.TrimSpace(id)
	if !hex32.MatchString(id) {
		return id
	}
	return id[0:8] + "-" + id[8:12] + "-" + id[12:16] + "-" + id[16:20] + "-" + id[20:]
}
