package pipeline

import (
	"time"

	"github.com/sentinel-news/sentinel/internal/articles"
	"github.com/sentinel-news/sentinel/internal/extraction"
)

// Submission describes one unit of content entering the pipeline.
type Submission struct {
	Kind extraction.Kind

	// URL is required for URL submissions and feed entries.
	URL string

	// Title and Text carry direct text submissions. Title is optional.
	Title string
	Text  string

	// Data, Filename, and ContentType carry file uploads.
	Data        []byte
	Filename    string
	ContentType string

	// LanguageHint is an optional OCR language code for file uploads.
	LanguageHint string

	// SourceStorageKey references the archived upload blob, when archival
	// succeeded.
	SourceStorageKey *string

	// PageCount is extracted from PDF uploads before processing.
	PageCount *int

	// PublishedDate is carried from feed entry metadata.
	PublishedDate *time.Time
}

// Outcome reports a completed pipeline run.
type Outcome struct {
	Article           *articles.Article `json:"article"`
	DetectedLanguage  string            `json:"detected_language"`
	TranslationSource string            `json:"translation_source"`
	AlertTriggered    bool              `json:"alert_triggered"`
}

// FeedItemResult reports the outcome of a single feed entry within a
// feed submission. On failure, Error describes the problem.
type FeedItemResult struct {
	URL     string   `json:"url"`
	Outcome *Outcome `json:"outcome,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// FeedResult aggregates per-entry outcomes of a feed submission.
type FeedResult struct {
	FeedURL   string           `json:"feed_url"`
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []FeedItemResult `json:"items"`
}
