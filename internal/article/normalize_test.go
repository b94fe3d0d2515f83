package article

import (
	"testing"

	"news-reporter/internal/model"
)

func raw(url, title string) model.RawArticle {
	r := model.RawArticle{URL: url, Title: title}
	r.Source.Name = "Wire"
	return r
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("https://example.com/a", "Title A")
	b := Fingerprint("https://example.com/a", "Title A")
	if a != b {
		t.Fatalf("fingerprint not deterministic: %s vs %s", a, b)
	}
	if a == Fingerprint("https://example.com/a", "Title B") {
		t.Fatal("different titles should not collide")
	}
	if len(a) != 32 {
		t.Fatalf("expected hex md5, got %q", a)
	}
}

func TestNormalizeSameArticleAcrossFetches(t *testing.T) {
	first := Normalize([]model.RawArticle{raw("https://e.com/x", "X")}, 10)
	second := Normalize([]model.RawArticle{raw("https://e.com/x", "X")}, 10)
	if first[0].ID != second[0].ID {
		t.Fatalf("ids differ across fetches: %s vs %s", first[0].ID, second[0].ID)
	}
}

func TestNormalizeDeduplicates(t *testing.T) {
	in := []model.RawArticle{
		raw("https://e.com/1", "One"),
		raw("https://e.com/2", "Two"),
		raw("https://e.com/1", "One"),
		raw("https://e.com/3", "Three"),
		raw("https://e.com/2", "Two"),
	}
	out := Normalize(in, 10)
	if len(out) != 3 {
		t.Fatalf("expected 3 unique articles, got %d", len(out))
	}
	seen := map[string]int{}
	for _, a := range out {
		seen[a.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %s appears %d times", id, n)
		}
	}
	if out[0].Title != "One" || out[1].Title != "Two" || out[2].Title != "Three" {
		t.Errorf("provider order not preserved: %+v", out)
	}
}

func TestNormalizeDedupBeforeTruncate(t *testing.T) {
	in := []model.RawArticle{
		raw("https://e.com/1", "One"),
		raw("https://e.com/1", "One"),
		raw("https://e.com/2", "Two"),
		raw("https://e.com/3", "Three"),
	}
	out := Normalize(in, 2)
	if len(out) != 2 || out[1].Title != "Two" {
		t.Fatalf("expected [One Two], got %+v", out)
	}
}

func TestNormalizePublishedAt(t *testing.T) {
	good := raw("https://e.com/1", "One")
	good.PublishedAt = "2024-03-05T08:09:10Z"
	bad := raw("https://e.com/2", "Two")
	bad.PublishedAt = "yesterday-ish"
	bad.URLToImage = "https://e.com/2.jpg"

	out := Normalize([]model.RawArticle{good, bad}, 10)
	if len(out) != 2 {
		t.Fatalf("unparsable date must not drop article, got %d", len(out))
	}
	if out[0].PublishedAt == nil || out[0].PublishedLabel() != "05-03-2024 08:09" {
		t.Errorf("unexpected parsed date label: %q", out[0].PublishedLabel())
	}
	if out[1].PublishedAt != nil || out[1].PublishedRaw != "yesterday-ish" {
		t.Errorf("expected raw date retained, got %+v", out[1])
	}
	if out[1].PublishedLabel() != "yesterday-ish" {
		t.Errorf("label should fall back to raw, got %q", out[1].PublishedLabel())
	}
	if out[1].ImageURL != "https://e.com/2.jpg" {
		t.Errorf("image url not carried: %q", out[1].ImageURL)
	}
}
