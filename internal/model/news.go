package model

import "time"

// RawArticle mirrors a single article as returned by the search API.
type RawArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Article is one normalized news item.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	SourceName  string     `json:"source_name"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	// PublishedRaw keeps the provider value when it could not be parsed.
	PublishedRaw string `json:"published_raw,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	Content      string `json:"content,omitempty"`
}

// PublishedLabel returns the display form of the publish time.
func (a Article) PublishedLabel() string {
	if a.PublishedAt != nil {
		return a.PublishedAt.Format("02-01-2006 15:04")
	}
	if a.PublishedRaw != "" {
		return a.PublishedRaw
	}
	return "Unknown date"
}

// Endpoint selects which search API operation a query targets.
type Endpoint string

const (
	EndpointEverything   Endpoint = "everything"
	EndpointTopHeadlines Endpoint = "top-headlines"
)

// SearchQuery holds the request parameters sent to a SearchProvider.
type SearchQuery struct {
	Endpoint Endpoint
	Query    string
	Language string
	From     *time.Time
	To       *time.Time
	SortBy   string
	PageSize int
}

// SearchResponse is the decoded provider payload.
type SearchResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []RawArticle `json:"articles"`
	Code         string       `json:"code,omitempty"`
	Message      string       `json:"message,omitempty"`
}

// SearchResult is the outcome of one cascade run.
type SearchResult struct {
	Articles []Article
	Strategy string
	Count    int
}
