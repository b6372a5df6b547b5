package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sentinel-news/sentinel/internal/config"
)

// Scraper extracts article content from web pages. It first targets
// article-structured markup and falls back to a generic paragraph sweep
// when the structured pass yields less than the configured minimum.
type Scraper struct {
	client    *http.Client
	userAgent string
	minLength int
	logger    *slog.Logger
}

// NewScraper creates a Scraper from the scraper configuration.
func NewScraper(cfg *config.ScraperConfig, logger *slog.Logger) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: cfg.TimeoutDuration()},
		userAgent: cfg.UserAgent,
		minLength: cfg.MinContentLength,
		logger:    logger.With("system", "scraper"),
	}
}

// Scrape fetches the page and extracts its article content.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*Content, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	content := extractArticle(doc)

	if runeLen(content.Text) < s.minLength {
		generic := extractGeneric(doc)
		if runeLen(generic) > runeLen(content.Text) {
			s.logger.Debug("generic extraction fallback", "url", pageURL)
			content.Text = generic
		}
	}

	if runeLen(content.Text) < s.minLength {
		return nil, fmt.Errorf(
			"insufficient content extracted from %s: %d characters",
			pageURL, runeLen(content.Text),
		)
	}

	return content, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page %s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}

func extractArticle(doc *goquery.Document) *Content {
	content := &Content{
		Title: extractTitle(doc),
	}

	var paragraphs []string
	doc.Find("article p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	content.Text = strings.Join(paragraphs, "\n\n")

	if published, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(published)); err == nil {
			content.PublishedDate = &t
		}
	}

	doc.Find(`meta[name="author"]`).Each(func(_ int, sel *goquery.Selection) {
		if author, ok := sel.Attr("content"); ok {
			if author = strings.TrimSpace(author); author != "" {
				content.Authors = append(content.Authors, author)
			}
		}
	})

	return content
}

func extractTitle(doc *goquery.Document) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	return untitled
}

// extractGeneric sweeps every paragraph on the page. Used when the page
// carries no article-structured markup.
func extractGeneric(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("body p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func runeLen(s string) int {
	return len([]rune(s))
}
