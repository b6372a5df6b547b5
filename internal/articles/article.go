// Package articles implements the article domain for Sentinel.
// It provides types, data access, and business logic for processed
// news articles: persistence, querying, analytics, and alert bookkeeping.
package articles

import (
	"time"

	"github.com/google/uuid"
)

// Article represents a fully processed news article with its source
// provenance, language resolution, classification results, and alert state.
type Article struct {
	ID                uuid.UUID  `json:"id"`
	SourceType        string     `json:"source_type"`
	SourceURL         *string    `json:"source_url"`
	SourceFileName    *string    `json:"source_file_name"`
	SourceStorageKey  *string    `json:"source_storage_key"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	OriginalLanguage  string     `json:"original_language"`
	DetectedLanguage  string     `json:"detected_language"`
	TranslatedContent *string    `json:"translated_content"`
	Sentiment         string     `json:"sentiment"`
	SentimentScore    float64    `json:"sentiment_score"`
	Department        string     `json:"department"`
	DepartmentScore   float64    `json:"department_score"`
	PublishedDate     *time.Time `json:"published_date"`
	Authors           []string   `json:"authors"`
	PageCount         *int       `json:"page_count"`
	AlertTriggered    bool       `json:"alert_triggered"`
	AlertSentAt       *time.Time `json:"alert_sent_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

// AnalysisText returns the text classification ran against: the translated
// content when translation produced one, the original content otherwise.
func (a *Article) AnalysisText() string {
	if a.TranslatedContent != nil && *a.TranslatedContent != "" {
		return *a.TranslatedContent
	}
	return a.Content
}

// CreateCommand carries the data needed to persist a processed article.
// Nil pointer fields are stored as NULL.
type CreateCommand struct {
	SourceType        string
	SourceURL         *string
	SourceFileName    *string
	SourceStorageKey  *string
	Title             string
	Content           string
	OriginalLanguage  string
	DetectedLanguage  string
	TranslatedContent *string
	Sentiment         string
	SentimentScore    float64
	Department        string
	DepartmentScore   float64
	PublishedDate     *time.Time
	Authors           []string
	PageCount         *int
}

// Analytics summarizes processed articles over a trailing window of days.
type Analytics struct {
	Days             int            `json:"days"`
	TotalArticles    int            `json:"total_articles"`
	SentimentCounts  map[string]int `json:"sentiment_counts"`
	DepartmentCounts map[string]int `json:"department_counts"`
	LanguageCounts   map[string]int `json:"language_counts"`
	AlertsTriggered  int            `json:"alerts_triggered"`
}
