// Package article turns raw search results into de-duplicated Article records.
package article

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"news-reporter/internal/model"
)

// Fingerprint returns the stable id of an article derived from url and title.
func Fingerprint(url, title string) string {
	sum := md5.Sum([]byte(url + title))
	return hex.EncodeToString(sum[:])
}

var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ParsePublished parses the provider timestamp. ok is false when no layout matched.
func ParsePublished(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize fingerprints, de-duplicates and truncates raw articles,
// keeping provider order. maxResults <= 0 means no truncation.
func Normalize(raw []model.RawArticle, maxResults int) []model.Article {
	seen := make(map[string]struct{}, len(raw))
	out := make([]model.Article, 0, len(raw))
	for _, r := range raw {
		a := FromRaw(r)
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// FromRaw converts a single raw article.
func FromRaw(r model.RawArticle) model.Article {
	a := model.Article{
		ID:          Fingerprint(r.URL, r.Title),
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		URL:         strings.TrimSpace(r.URL),
		SourceName:  strings.TrimSpace(r.Source.Name),
		ImageURL:    strings.TrimSpace(r.URLToImage),
		Content:     r.Content,
	}
	if t, ok := ParsePublished(r.PublishedAt); ok {
		a.PublishedAt = &t
	} else {
		a.PublishedRaw = strings.TrimSpace(r.PublishedAt)
	}
	return a
}
