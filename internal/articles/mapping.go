package articles

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/sentinel-news/sentinel/pkg/query"
	"github.com/sentinel-news/sentinel/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "articles", "a").
	Project("id", "ID").
	Project("source_type", "SourceType").
	Project("source_url", "SourceURL").
	Project("source_file_name", "SourceFileName").
	Project("source_storage_key", "SourceStorageKey").
	Project("title", "Title").
	Project("content", "Content").
	Project("original_language", "OriginalLanguage").
	Project("detected_language", "DetectedLanguage").
	Project("translated_content", "TranslatedContent").
	Project("sentiment", "Sentiment").
	Project("sentiment_score", "SentimentScore").
	Project("department", "Department").
	Project("department_score", "DepartmentScore").
	Project("published_date", "PublishedDate").
	Project("authors", "Authors").
	Project("page_count", "PageCount").
	Project("alert_triggered", "AlertTriggered").
	Project("alert_sent_at", "AlertSentAt").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for article queries.
// Nil fields are ignored. SourceType, Sentiment, Department, DetectedLanguage,
// and AlertTriggered use exact matching. Title uses case-insensitive contains
// matching. From and To bound CreatedAt inclusively.
type Filters struct {
	SourceType       *string    `json:"source_type,omitempty"`
	Title            *string    `json:"title,omitempty"`
	Sentiment        *string    `json:"sentiment,omitempty"`
	Department       *string    `json:"department,omitempty"`
	DetectedLanguage *string    `json:"detected_language,omitempty"`
	AlertTriggered   *bool      `json:"alert_triggered,omitempty"`
	From             *time.Time `json:"from,omitempty"`
	To               *time.Time `json:"to,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SourceType", f.SourceType).
		WhereContains("Title", f.Title).
		WhereEquals("Sentiment", f.Sentiment).
		WhereEquals("Department", f.Department).
		WhereEquals("DetectedLanguage", f.DetectedLanguage).
		WhereEquals("AlertTriggered", f.AlertTriggered).
		WhereGte("CreatedAt", f.From).
		WhereLte("CreatedAt", f.To)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if st := values.Get("source_type"); st != "" {
		f.SourceType = &st
	}

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	if s := values.Get("sentiment"); s != "" {
		f.Sentiment = &s
	}

	if d := values.Get("department"); d != "" {
		f.Department = &d
	}

	if dl := values.Get("detected_language"); dl != "" {
		f.DetectedLanguage = &dl
	}

	if at := values.Get("alert_triggered"); at != "" {
		if v, err := strconv.ParseBool(at); err == nil {
			f.AlertTriggered = &v
		}
	}

	if from := values.Get("from"); from != "" {
		if v, err := time.Parse(time.RFC3339, from); err == nil {
			f.From = &v
		}
	}

	if to := values.Get("to"); to != "" {
		if v, err := time.Parse(time.RFC3339, to); err == nil {
			f.To = &v
		}
	}

	return f
}

func scanArticle(s repository.Scanner) (Article, error) {
	var (
		a       Article
		authors []byte
	)

	err := s.Scan(
		&a.ID,
		&a.SourceType,
		&a.SourceURL,
		&a.SourceFileName,
		&a.SourceStorageKey,
		&a.Title,
		&a.Content,
		&a.OriginalLanguage,
		&a.DetectedLanguage,
		&a.TranslatedContent,
		&a.Sentiment,
		&a.SentimentScore,
		&a.Department,
		&a.DepartmentScore,
		&a.PublishedDate,
		&authors,
		&a.PageCount,
		&a.AlertTriggered,
		&a.AlertSentAt,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	if len(authors) > 0 {
		if err := json.Unmarshal(authors, &a.Authors); err != nil {
			return a, err
		}
	}

	return a, nil
}

func marshalAuthors(authors []string) ([]byte, error) {
	if authors == nil {
		return nil, nil
	}
	return json.Marshal(authors)
}
