package document

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"news-reporter/internal/model"
	"news-reporter/internal/retry"
	"news-reporter/internal/scrape"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 10, 9, 30, 0, 0, time.Local) }

func sample(n int) []model.Article {
	out := make([]model.Article, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Article{
			ID:          fmt.Sprintf("id-%d", i),
			Title:       fmt.Sprintf("Story %d", i),
			Description: fmt.Sprintf("Description %d", i),
			URL:         fmt.Sprintf("https://example.com/%d", i),
			SourceName:  "Wire",
			ImageURL:    fmt.Sprintf("https://example.com/%d.jpg", i),
		})
	}
	return out
}

type fakeSummarizer struct {
	calls int
	fail  map[string]bool
}

func (f *fakeSummarizer) SummarizeItem(ctx context.Context, title, content, language string) (string, error) {
	f.calls++
	if f.fail[title] {
		return "", errors.New("model overloaded")
	}
	return "summary of " + title, nil
}

type fakeDetails struct {
	calls int
	d     scrape.Details
	errs  []error // returned by the first calls, in order
}

func (f *fakeDetails) Details(ctx context.Context, url string) (scrape.Details, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return scrape.Details{}, f.errs[f.calls-1]
	}
	return f.d, nil
}

func TestAssembleEmpty(t *testing.T) {
	a := &Assembler{Now: fixedNow}
	doc := a.Assemble(context.Background(), "climate", nil, Options{IncludeImages: true, IncludeSummary: true})
	if len(doc.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(doc.Blocks))
	}
	h1, ok := doc.Blocks[0].(Heading)
	if !ok || h1.Level != 1 || h1.Text != ReportHeading {
		t.Errorf("block 0 = %#v", doc.Blocks[0])
	}
	h2, ok := doc.Blocks[1].(Heading)
	if !ok || h2.Level != 2 || h2.Text != "Date: 10-06-2024" {
		t.Errorf("block 1 = %#v", doc.Blocks[1])
	}
	if _, ok := doc.Blocks[2].(Divider); !ok {
		t.Errorf("block 2 = %#v", doc.Blocks[2])
	}
	p, ok := doc.Blocks[3].(Paragraph)
	if !ok || p.PlainText() != NoArticlesText {
		t.Errorf("block 3 = %#v", doc.Blocks[3])
	}
	if doc.Title != "News Report: climate - 10-06-2024" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestAssembleBlockCountWithoutOptionalBlocks(t *testing.T) {
	a := &Assembler{Now: fixedNow, Summarizer: &fakeSummarizer{}}
	doc := a.Assemble(context.Background(), "climate", sample(2), Options{})
	// 3 header blocks + intro + 2 x (heading, metadata, description, link, divider)
	if got, want := len(doc.Blocks), 3+1+2*5; got != want {
		t.Fatalf("expected %d blocks, got %d", want, got)
	}
}

func TestAssembleArticleGroupLayout(t *testing.T) {
	sum := &fakeSummarizer{}
	a := &Assembler{Now: fixedNow, Summarizer: sum}
	arts := sample(2)
	arts[1].ImageURL = ""
	arts[1].Description = ""
	doc := a.Assemble(context.Background(), "climate", arts, Options{IncludeImages: true, IncludeSummary: true})

	intro := doc.Blocks[3].(Paragraph)
	if intro.PlainText() != "Found 2 relevant articles on the requested topic:" {
		t.Errorf("intro = %q", intro.PlainText())
	}
	g := doc.Blocks[4:]
	// first article: heading, metadata, image, description, summary, link, divider
	if h := g[0].(Heading); h.Level != 3 || h.Text != "1. Story 1" {
		t.Errorf("heading = %#v", g[0])
	}
	meta := g[1].(Paragraph)
	if meta.PlainText() != "Source: Wire | Published: Unknown date" || !meta.Runs[0].Bold || !meta.Runs[0].Italic {
		t.Errorf("metadata = %#v", meta)
	}
	if img := g[2].(Image); img.URL != "https://example.com/1.jpg" {
		t.Errorf("image = %#v", g[2])
	}
	if d := g[3].(Paragraph); d.PlainText() != "Description 1" {
		t.Errorf("description = %#v", g[3])
	}
	s := g[4].(Paragraph)
	if len(s.Runs) != 2 || s.Runs[0].Text != SummaryLabel || s.Runs[1].Text != "summary of Story 1" {
		t.Errorf("summary = %#v", s)
	}
	l := g[5].(Paragraph)
	if l.Runs[0].Link != "https://example.com/1" || l.Runs[0].Text != ReadMoreText {
		t.Errorf("link = %#v", l)
	}
	if _, ok := g[6].(Divider); !ok {
		t.Errorf("expected divider, got %#v", g[6])
	}
	// second article: no image, fallback description, no summary
	g2 := g[7:]
	if len(g2) != 5 {
		t.Fatalf("expected 5 blocks for second article, got %d", len(g2))
	}
	if h := g2[0].(Heading); h.Text != "2. Story 2" {
		t.Errorf("heading = %#v", g2[0])
	}
	if d := g2[2].(Paragraph); d.PlainText() != NoDescriptionText {
		t.Errorf("description fallback = %#v", g2[2])
	}
	if sum.calls != 1 {
		t.Errorf("summarizer should only run for articles with a description, calls=%d", sum.calls)
	}
}

func TestAssembleSummaryFailureIsSkipped(t *testing.T) {
	sum := &fakeSummarizer{fail: map[string]bool{"Story 1": true}}
	a := &Assembler{Now: fixedNow, Summarizer: sum}
	doc := a.Assemble(context.Background(), "climate", sample(2), Options{IncludeSummary: true})
	// first group without summary (5), second with summary (6)
	if got, want := len(doc.Blocks), 4+5+6; got != want {
		t.Fatalf("expected %d blocks, got %d", want, got)
	}
	if sum.calls != 2 {
		t.Errorf("every article should be attempted, calls=%d", sum.calls)
	}
}

func TestAssembleUsesDetailsForMissingImage(t *testing.T) {
	det := &fakeDetails{d: scrape.Details{MainImage: "https://cdn.example.com/og.jpg", FullContent: "long body"}}
	a := &Assembler{Now: fixedNow, Details: det}
	arts := sample(1)
	arts[0].ImageURL = ""
	doc := a.Assemble(context.Background(), "climate", arts, Options{IncludeImages: true})
	img, ok := doc.Blocks[6].(Image)
	if !ok || img.URL != "https://cdn.example.com/og.jpg" {
		t.Fatalf("expected og image block, got %#v", doc.Blocks[6])
	}
	if det.calls != 1 {
		t.Errorf("details fetched %d times", det.calls)
	}
}

func TestAssembleRetriesRateLimitedDetails(t *testing.T) {
	det := &fakeDetails{
		d:    scrape.Details{MainImage: "https://cdn.example.com/og.jpg"},
		errs: []error{errors.New("article fetch failed: status=429")},
	}
	rp := retry.Default()
	rp.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	a := &Assembler{Now: fixedNow, Details: det, Retry: rp}
	arts := sample(1)
	arts[0].ImageURL = ""
	doc := a.Assemble(context.Background(), "climate", arts, Options{IncludeImages: true})
	if det.calls != 2 {
		t.Fatalf("details fetched %d times, want 2", det.calls)
	}
	img, ok := doc.Blocks[6].(Image)
	if !ok || img.URL != "https://cdn.example.com/og.jpg" {
		t.Fatalf("expected og image block after retry, got %#v", doc.Blocks[6])
	}
}

func TestAssembleTitleTemplate(t *testing.T) {
	a := &Assembler{Now: fixedNow, TitleTemplate: "{.Topic} digest ({.CurrentDate})"}
	doc := a.Assemble(context.Background(), "ai", nil, Options{})
	if doc.Title != "ai digest (10-06-2024)" {
		t.Errorf("title = %q", doc.Title)
	}
}
