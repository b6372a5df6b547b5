// Package extraction converts raw submissions into article text. URL
// submissions are scraped with goquery, falling back to a generic paragraph
// sweep when article-structured extraction yields too little content. PDF
// and image submissions are delegated to the OCR service.
package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Kind identifies the submission source type.
type Kind string

const (
	KindURL   Kind = "url"
	KindText  Kind = "text"
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
	KindFeed  Kind = "feed"
)

const untitled = "Untitled"

// Request describes one submission to extract content from.
type Request struct {
	Kind Kind

	// URL is required for KindURL.
	URL string

	// Title and Text are used for KindText. Title is optional.
	Title string
	Text  string

	// Data and Filename carry the uploaded file for KindPDF and KindImage.
	Data     []byte
	Filename string

	// LanguageHint is an optional OCR language code (e.g. "hin").
	LanguageHint string
}

// Content is the extraction result handed to the rest of the pipeline.
type Content struct {
	Title         string
	Text          string
	PublishedDate *time.Time
	Authors       []string
}

// Gateway dispatches extraction requests by submission kind.
type Gateway interface {
	Extract(ctx context.Context, req Request) (*Content, error)
}

type gateway struct {
	scraper *Scraper
	ocr     *OCRClient
}

// NewGateway creates a Gateway backed by the given scraper and OCR client.
func NewGateway(scraper *Scraper, ocr *OCRClient) Gateway {
	return &gateway{
		scraper: scraper,
		ocr:     ocr,
	}
}

func (g *gateway) Extract(ctx context.Context, req Request) (*Content, error) {
	switch req.Kind {
	case KindURL:
		return g.scraper.Scrape(ctx, req.URL)

	case KindText:
		return extractText(req)

	case KindPDF, KindImage:
		// OCR output is surfaced as-is, empty text included; whether empty
		// content is acceptable is the caller's call.
		text, err := g.ocr.Extract(ctx, req.Data, req.Filename, req.LanguageHint)
		if err != nil {
			return nil, err
		}
		return &Content{
			Title: titleFromFilename(req.Filename),
			Text:  text,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported submission kind: %s", req.Kind)
	}
}

func extractText(req Request) (*Content, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text submission is empty")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = firstLine(text)
	}

	return &Content{
		Title: title,
		Text:  text,
	}, nil
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return untitled
	}

	runes := []rune(line)
	if len(runes) > 120 {
		return string(runes[:120])
	}
	return line
}

func titleFromFilename(filename string) string {
	name := strings.TrimSpace(filename)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		return untitled
	}
	return name
}
