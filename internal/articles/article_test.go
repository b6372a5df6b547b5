package articles_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/sentinel-news/sentinel/internal/articles"
)

func TestAnalysisText(t *testing.T) {
	translated := "Flood waters receded by morning."
	empty := ""

	tests := []struct {
		name    string
		article articles.Article
		want    string
	}{
		{
			name:    "no translation",
			article: articles.Article{Content: "original body"},
			want:    "original body",
		},
		{
			name:    "translation present",
			article: articles.Article{Content: "original body", TranslatedContent: &translated},
			want:    translated,
		},
		{
			name:    "empty translation ignored",
			article: articles.Article{Content: "original body", TranslatedContent: &empty},
			want:    "original body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.article.AnalysisText(); got != tt.want {
				t.Errorf("AnalysisText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("source_type", "url")
	values.Set("sentiment", "negative")
	values.Set("department", "health")
	values.Set("detected_language", "hi")
	values.Set("alert_triggered", "true")
	values.Set("from", "2026-08-01T00:00:00Z")
	values.Set("to", "2026-08-31T23:59:59Z")

	f := articles.FiltersFromQuery(values)

	if f.SourceType == nil || *f.SourceType != "url" {
		t.Errorf("SourceType = %v", f.SourceType)
	}
	if f.Sentiment == nil || *f.Sentiment != "negative" {
		t.Errorf("Sentiment = %v", f.Sentiment)
	}
	if f.Department == nil || *f.Department != "health" {
		t.Errorf("Department = %v", f.Department)
	}
	if f.DetectedLanguage == nil || *f.DetectedLanguage != "hi" {
		t.Errorf("DetectedLanguage = %v", f.DetectedLanguage)
	}
	if f.AlertTriggered == nil || !*f.AlertTriggered {
		t.Errorf("AlertTriggered = %v", f.AlertTriggered)
	}
	if f.From == nil || f.From.Month() != time.August {
		t.Errorf("From = %v", f.From)
	}
	if f.To == nil || f.To.Day() != 31 {
		t.Errorf("To = %v", f.To)
	}
}

func TestFiltersFromQueryIgnoresInvalid(t *testing.T) {
	values := url.Values{}
	values.Set("alert_triggered", "maybe")
	values.Set("from", "last tuesday")

	f := articles.FiltersFromQuery(values)

	if f.AlertTriggered != nil {
		t.Errorf("AlertTriggered = %v, want nil for unparseable value", f.AlertTriggered)
	}
	if f.From != nil {
		t.Errorf("From = %v, want nil for unparseable value", f.From)
	}
}

func TestFiltersFromQueryEmpty(t *testing.T) {
	f := articles.FiltersFromQuery(url.Values{})

	if f.SourceType != nil || f.Title != nil || f.Sentiment != nil ||
		f.Department != nil || f.DetectedLanguage != nil ||
		f.AlertTriggered != nil || f.From != nil || f.To != nil {
		t.Errorf("empty query produced non-empty filters: %+v", f)
	}
}
