package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"news-reporter/internal/document"
	"news-reporter/internal/publish"
)

// Publisher writes reports as Markdown files under Dir.
type Publisher struct {
	Dir string
	Now func() time.Time
}

func (p *Publisher) Name() string { return "markdown" }

type frontmatter struct {
	Title    string `yaml:"title"`
	Topic    string `yaml:"topic,omitempty"`
	Slug     string `yaml:"slug"`
	Datetime string `yaml:"datetime"`
}

// Publish writes {Dir}/{slug}.md and returns its file:// URL.
func (p *Publisher) Publish(ctx context.Context, doc document.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", publish.Wrap("markdown", err)
	}
	if strings.TrimSpace(p.Dir) == "" {
		return "", publish.Wrap("markdown", errors.New("output dir not configured"))
	}
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	body, err := Render(doc.Blocks)
	if err != nil {
		return "", publish.Wrap("markdown", err)
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", publish.Wrap("markdown", fmt.Errorf("mkdir: %w", err))
	}
	f, slug, err := createUnique(p.Dir, Slug(doc.Title, now))
	if err != nil {
		return "", publish.Wrap("markdown", err)
	}
	path := f.Name()
	fm := frontmatter{
		Title:    doc.Title,
		Topic:    doc.Topic,
		Slug:     slug,
		Datetime: now.Format("2006-01-02 15:04"),
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", publish.Wrap("markdown", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n")
	buf.WriteString(body)

	_, err = f.Write(buf.Bytes())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", publish.Wrap("markdown", fmt.Errorf("write: %w", err))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	slog.Info("markdown: report written", "path", abs)
	return u, nil
}

const maxSlugSuffix = 100

// createUnique creates {dir}/{slug}.md, appending -2, -3 and so on when a
// report with the same slug already exists. Existing files are never replaced.
func createUnique(dir, slug string) (*os.File, string, error) {
	for n := 1; n <= maxSlugSuffix; n++ {
		name := slug
		if n > 1 {
			name = fmt.Sprintf("%s-%d", slug, n)
		}
		f, err := os.OpenFile(filepath.Join(dir, name+".md"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create: %w", err)
		}
	}
	return nil, "", fmt.Errorf("create: too many reports named %s", slug)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a file-safe name from the title with a time suffix. Reports
// published within the same second get a numeric suffix from Publish.
func Slug(title string, now time.Time) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		s = "report"
	}
	return s + "-" + now.Format("150405")
}
