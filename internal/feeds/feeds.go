// Package feeds fetches RSS/Atom feeds for bulk article submission.
package feeds

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is a single feed item eligible for ingestion.
type Entry struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Published *time.Time `json:"published,omitempty"`
}

// Fetcher parses remote feeds into ingestion entries.
type Fetcher struct {
	parser *gofeed.Parser
}

// NewFetcher creates a feed fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{parser: gofeed.NewParser()}
}

// Fetch parses the feed and returns up to limit entries with links.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string, limit int) ([]Entry, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	entries := make([]Entry, 0, min(limit, len(feed.Items)))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		entries = append(entries, Entry{
			Title:     item.Title,
			URL:       item.Link,
			Published: item.PublishedParsed,
		})

		if len(entries) == limit {
			break
		}
	}

	return entries, nil
}
