package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"news-reporter/internal/model"
	"news-reporter/internal/retry"
	"news-reporter/internal/scrape"
)

const (
	// DateLayout is the day format used in titles and the date heading.
	DateLayout = "02-01-2006"

	ReportHeading     = "News Report"
	NoArticlesText    = "No relevant news found for the requested topic."
	NoDescriptionText = "No description available."
	ReadMoreText      = "Read full article"
	SummaryLabel      = "AI Summary: "
	defaultTitle      = "News Report: {.Topic} - {.CurrentDate}"
	maxSummaryInput   = 4000
)

// Summarizer produces a short summary of one article.
type Summarizer interface {
	SummarizeItem(ctx context.Context, title, content, language string) (string, error)
}

// DetailFetcher retrieves enrichment data from an article page.
type DetailFetcher interface {
	Details(ctx context.Context, url string) (scrape.Details, error)
}

// Options toggles optional per-article blocks.
type Options struct {
	IncludeImages  bool
	IncludeSummary bool
	// Language overrides Assembler.Language for summaries.
	Language string
}

// Assembler builds Documents. Summarizer and Details are optional. Retry,
// when set, wraps Details fetches.
type Assembler struct {
	Summarizer    Summarizer
	Details       DetailFetcher
	Retry         *retry.Policy
	Language      string
	TitleTemplate string
	Now           func() time.Time
}

// Assemble lays out the report: title heading, date heading, divider, then
// either the empty notice or an intro followed by one group per article.
func (a *Assembler) Assemble(ctx context.Context, topic string, articles []model.Article, opts Options) Document {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	tmpl := a.TitleTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = defaultTitle
	}
	doc := Document{Title: ExpandVars(tmpl, topic, now), Topic: topic}
	doc.Blocks = append(doc.Blocks,
		NewHeading(1, ReportHeading),
		NewHeading(2, "Date: "+now.Format(DateLayout)),
		NewDivider(),
	)
	if len(articles) == 0 {
		doc.Blocks = append(doc.Blocks, NewParagraph(Text(NoArticlesText)))
		return doc
	}
	doc.Blocks = append(doc.Blocks, NewParagraph(Text(fmt.Sprintf("Found %d relevant articles on the requested topic:", len(articles)))))
	for i, art := range articles {
		doc.Blocks = append(doc.Blocks, a.articleBlocks(ctx, i+1, art, opts)...)
	}
	return doc
}

func (a *Assembler) articleBlocks(ctx context.Context, index int, art model.Article, opts Options) []Block {
	title := art.Title
	if title == "" {
		title = "Untitled"
	}
	source := art.SourceName
	if source == "" {
		source = "Unknown source"
	}
	link := art.URL
	if link == "" {
		link = "#"
	}

	var details *scrape.Details
	lookup := func() *scrape.Details {
		if details != nil || a.Details == nil || art.URL == "" {
			return details
		}
		d, err := retry.Value(ctx, a.Retry, "scrape:details", func(ctx context.Context) (scrape.Details, error) {
			return a.Details.Details(ctx, art.URL)
		})
		if err != nil {
			slog.Debug("document: detail fetch failed", "url", art.URL, "err", err)
			d = scrape.Details{}
		}
		details = &d
		return details
	}

	blocks := []Block{
		NewHeading(3, fmt.Sprintf("%d. %s", index, title)),
		NewParagraph(Run{Text: fmt.Sprintf("Source: %s | Published: %s", source, art.PublishedLabel()), Bold: true, Italic: true}),
	}
	if opts.IncludeImages {
		img := art.ImageURL
		if img == "" {
			if d := lookup(); d != nil {
				img = d.MainImage
			}
		}
		if img != "" {
			blocks = append(blocks, NewImage(img))
		}
	}
	desc := art.Description
	if desc == "" {
		desc = NoDescriptionText
	}
	blocks = append(blocks, NewParagraph(Text(desc)))
	if opts.IncludeSummary && a.Summarizer != nil && art.Description != "" {
		content := art.Description
		if d := lookup(); d != nil && strings.TrimSpace(d.FullContent) != "" {
			content = d.FullContent
		}
		if r := []rune(content); len(r) > maxSummaryInput {
			content = string(r[:maxSummaryInput])
		}
		lang := opts.Language
		if lang == "" {
			lang = a.Language
		}
		summary, err := a.Summarizer.SummarizeItem(ctx, art.Title, content, lang)
		if err != nil {
			slog.Warn("document: summary skipped", "title", art.Title, "err", err)
		} else if s := strings.TrimSpace(summary); s != "" {
			blocks = append(blocks, NewParagraph(Run{Text: SummaryLabel, Bold: true, Color: "blue"}, Text(s)))
		}
	}
	blocks = append(blocks,
		NewParagraph(Run{Text: ReadMoreText, Bold: true, Underline: true, Link: link}),
		NewDivider(),
	)
	return blocks
}
