package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sentinel-news/sentinel/internal/alerts"
	"github.com/sentinel-news/sentinel/internal/articles"
	"github.com/sentinel-news/sentinel/internal/classify"
	"github.com/sentinel-news/sentinel/internal/config"
	"github.com/sentinel-news/sentinel/internal/extraction"
	"github.com/sentinel-news/sentinel/internal/language"
	"github.com/sentinel-news/sentinel/internal/pipeline"
	"github.com/sentinel-news/sentinel/internal/translation"
	"github.com/sentinel-news/sentinel/pkg/pagination"
)

// stubArticles records Create commands and fabricates persisted articles.
type stubArticles struct {
	createErr error
	created   []articles.CreateCommand
}

func (s *stubArticles) Handler() *articles.Handler { return nil }

func (s *stubArticles) List(context.Context, pagination.PageRequest, articles.Filters) (*pagination.PageResult[articles.Article], error) {
	return nil, errors.New("not implemented")
}

func (s *stubArticles) Find(context.Context, uuid.UUID) (*articles.Article, error) {
	return nil, articles.ErrNotFound
}

func (s *stubArticles) Create(_ context.Context, cmd articles.CreateCommand) (*articles.Article, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, cmd)

	return &articles.Article{
		ID:                uuid.New(),
		SourceType:        cmd.SourceType,
		SourceURL:         cmd.SourceURL,
		Title:             cmd.Title,
		Content:           cmd.Content,
		OriginalLanguage:  cmd.OriginalLanguage,
		DetectedLanguage:  cmd.DetectedLanguage,
		TranslatedContent: cmd.TranslatedContent,
		Sentiment:         cmd.Sentiment,
		SentimentScore:    cmd.SentimentScore,
		Department:        cmd.Department,
		DepartmentScore:   cmd.DepartmentScore,
		PublishedDate:     cmd.PublishedDate,
		Authors:           cmd.Authors,
		PageCount:         cmd.PageCount,
		CreatedAt:         time.Now(),
	}, nil
}

func (s *stubArticles) RecordAlertSent(context.Context, uuid.UUID, time.Time) error { return nil }
func (s *stubArticles) Delete(context.Context, uuid.UUID) error                     { return nil }

func (s *stubArticles) Source(context.Context, uuid.UUID) (io.ReadCloser, string, error) {
	return nil, "", articles.ErrNoSource
}

func (s *stubArticles) Analytics(context.Context, int) (*articles.Analytics, error) {
	return nil, errors.New("not implemented")
}

// stubAlerts reports a fixed evaluation result.
type stubAlerts struct {
	triggered bool
	err       error
	evaluated []*articles.Article
}

func (s *stubAlerts) Handler() *alerts.Handler { return nil }

func (s *stubAlerts) List(context.Context, pagination.PageRequest, alerts.Filters) (*pagination.PageResult[alerts.AlertRecord], error) {
	return nil, errors.New("not implemented")
}

func (s *stubAlerts) Evaluate(_ context.Context, article *articles.Article) (bool, error) {
	s.evaluated = append(s.evaluated, article)
	return s.triggered, s.err
}

type fixture struct {
	sys       pipeline.System
	articles  *stubArticles
	alerts    *stubAlerts
	sentiment *classifierStub
}

type classifierStub struct {
	label    string
	score    float64
	received string
}

func (c *classifierStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		c.received = payload.Text

		json.NewEncoder(w).Encode(map[string]any{"label": c.label, "score": c.score})
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture wires a pipeline over httptest classifier servers, an
// unreachable primary translator, and stub persistence and alerting.
func newFixture(t *testing.T, primaryURL string) *fixture {
	return newFixtureOCR(t, primaryURL, "http://localhost:1")
}

func newFixtureOCR(t *testing.T, primaryURL, ocrURL string) *fixture {
	t.Helper()

	logger := discardLogger()

	scraperCfg := &config.ScraperConfig{UserAgent: "test", Timeout: "5s", MinContentLength: 100}
	ocrCfg := &config.OCRConfig{Endpoint: ocrURL, Timeout: "5s", DefaultLanguage: "eng"}
	gateway := extraction.NewGateway(
		extraction.NewScraper(scraperCfg, logger),
		extraction.NewOCRClient(ocrCfg),
	)

	langCfg := &config.LanguageConfig{}
	if err := langCfg.Finalize(); err != nil {
		t.Fatalf("finalizing language config: %v", err)
	}
	resolver := language.NewResolver(langCfg)

	translationCfg := &config.TranslationConfig{PrimaryCap: 1000, FallbackCap: 1500, Timeout: "5s"}
	chain := translation.NewChain(
		translation.NewPrimaryClient(primaryURL, 5*time.Second),
		nil,
		translationCfg,
		langCfg.DefaultCode,
		logger,
	)

	sentiment := &classifierStub{label: "LABEL_1", score: 0.8}
	sentimentServer := httptest.NewServer(sentiment.handler())
	t.Cleanup(sentimentServer.Close)

	department := &classifierStub{label: "LABEL_2", score: 0.7}
	departmentServer := httptest.NewServer(department.handler())
	t.Cleanup(departmentServer.Close)

	classifierCfg := &config.ClassifierConfig{
		SentimentEndpoint:  sentimentServer.URL,
		DepartmentEndpoint: departmentServer.URL,
		SentimentLabels:    []string{"negative", "neutral", "positive"},
		DepartmentLabels:   []string{"education", "health", "infrastructure"},
		TruncateLength:     512,
		Timeout:            "5s",
	}
	adapter := classify.NewAdapter(classifierCfg, logger)

	articleSys := &stubArticles{}
	alertSys := &stubAlerts{}

	return &fixture{
		sys:       pipeline.New(gateway, resolver, chain, adapter, articleSys, alertSys, logger),
		articles:  articleSys,
		alerts:    alertSys,
		sentiment: sentiment,
	}
}

const englishBody = "The state transport department announced revised bus schedules " +
	"covering all interchange routes after commuters reported long waits during peak hours."

func TestProcessTextSubmission(t *testing.T) {
	f := newFixture(t, "http://localhost:1")

	outcome, err := f.sys.Process(context.Background(), pipeline.Submission{
		Kind:  extraction.KindText,
		Title: "Bus Schedules Revised",
		Text:  englishBody,
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if outcome.DetectedLanguage != "en" {
		t.Errorf("DetectedLanguage = %q, want en", outcome.DetectedLanguage)
	}
	if outcome.TranslationSource != translation.SourceSkipped {
		t.Errorf("TranslationSource = %q, want %q", outcome.TranslationSource, translation.SourceSkipped)
	}
	if outcome.Article == nil {
		t.Fatal("Article is nil")
	}
	if outcome.Article.Title != "Bus Schedules Revised" {
		t.Errorf("Title = %q", outcome.Article.Title)
	}
	if outcome.Article.SourceType != "text" {
		t.Errorf("SourceType = %q, want text", outcome.Article.SourceType)
	}
	if outcome.Article.Sentiment != "neutral" {
		t.Errorf("Sentiment = %q, want neutral", outcome.Article.Sentiment)
	}
	if outcome.Article.Department != "infrastructure" {
		t.Errorf("Department = %q, want infrastructure", outcome.Article.Department)
	}
	if outcome.Article.TranslatedContent != nil {
		t.Errorf("TranslatedContent = %q, want nil for English content", *outcome.Article.TranslatedContent)
	}

	if len(f.alerts.evaluated) != 1 {
		t.Errorf("alert evaluation ran %d times, want 1", len(f.alerts.evaluated))
	}
}

func TestProcessTranslatesBeforeClassification(t *testing.T) {
	const translatedBody = "Heavy rains flooded the riverside settlements overnight."

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"translation": translatedBody})
	}))
	defer primary.Close()

	f := newFixture(t, primary.URL)

	outcome, err := f.sys.Process(context.Background(), pipeline.Submission{
		Kind: extraction.KindText,
		Text: "भारी बारिश ने रात भर में नदी किनारे की बस्तियों को जलमग्न कर दिया। " +
			"प्रशासन ने राहत शिविर स्थापित किए हैं और बचाव दल तैनात किए गए हैं।",
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if outcome.DetectedLanguage != "hi" {
		t.Errorf("DetectedLanguage = %q, want hi", outcome.DetectedLanguage)
	}
	if outcome.TranslationSource != translation.SourcePrimary {
		t.Errorf("TranslationSource = %q, want %q", outcome.TranslationSource, translation.SourcePrimary)
	}
	if outcome.Article.TranslatedContent == nil || *outcome.Article.TranslatedContent != translatedBody {
		t.Errorf("TranslatedContent = %v, want translated body", outcome.Article.TranslatedContent)
	}
	if f.sentiment.received != translatedBody {
		t.Errorf("classifier received %q, want the translated text", f.sentiment.received)
	}
}

func TestProcessPassthroughStillPersists(t *testing.T) {
	// Primary translator unreachable, no fallback: content passes through
	// untranslated and classification runs on the original text.
	f := newFixture(t, "http://localhost:1")

	outcome, err := f.sys.Process(context.Background(), pipeline.Submission{
		Kind: extraction.KindText,
		Text: "प्रशासन ने जल आपूर्ति बाधित होने की चेतावनी जारी की है।",
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if outcome.TranslationSource != translation.SourcePassthrough {
		t.Errorf("TranslationSource = %q, want %q", outcome.TranslationSource, translation.SourcePassthrough)
	}
	if outcome.Article.TranslatedContent != nil {
		t.Error("TranslatedContent should be nil on passthrough")
	}
	if len(f.articles.created) != 1 {
		t.Errorf("Create ran %d times, want 1", len(f.articles.created))
	}
}

func TestProcessExtractionFailureIsTerminal(t *testing.T) {
	f := newFixture(t, "http://localhost:1")

	_, err := f.sys.Process(context.Background(), pipeline.Submission{
		Kind: extraction.KindText,
		Text: "   ",
	})
	if err == nil {
		t.Fatal("expected error for empty text")
	}
	if !errors.Is(err, pipeline.ErrExtraction) {
		t.Errorf("error = %v, want ErrExtraction", err)
	}
	if len(f.articles.created) != 0 {
		t.Error("nothing should persist when extraction fails")
	}
}

func TestProcessEmptyOCROutputIsTerminal(t *testing.T) {
	ocr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "   "})
	}))
	defer ocr.Close()

	f := newFixtureOCR(t, "http://localhost:1", ocr.URL)

	_, err := f.sys.Process(context.Background(), pipeline.Submission{
		Kind:     extraction.KindImage,
		Data:     []byte{0xFF, 0xD8},
		Filename: "clipping.jpg",
	})
	if err == nil {
		t.Fatal("expected error for blank OCR output")
	}
	if !errors.Is(err, pipeline.ErrExtraction) {
		t.Errorf("error = %v, want ErrExtraction", err)
	}
	if len(f.articles.created) != 0 {
		t.Error("nothing should persist when extraction yields no content")
	}
}

func TestProcessPersistenceFailureIsTerminal(t *testing.T) {
	f := newFixture(t, "http://localhost:1")
	f.articles.createErr = errors.New("database unavailable")

	_, err := f.sys.Process(context.Background(), pipeline.Submission{
		Kind: extraction.KindText,
		Text: englishBody,
	})
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}
	if !errors.Is(err, pipeline.ErrPersistence) {
		t.Errorf("error = %v, want ErrPersistence", err)
	}
	if len(f.alerts.evaluated) != 0 {
		t.Error("alerts should not evaluate when persistence fails")
	}
}

func TestProcessAlertFailureDoesNotFailRun(t *testing.T) {
	f := newFixture(t, "http://localhost:1")
	f.alerts.err = errors.New("smtp unreachable")

	outcome, err := f.sys.Process(context.Background(), pipeline.Submission{
		Kind: extraction.KindText,
		Text: englishBody,
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if outcome.AlertTriggered {
		t.Error("AlertTriggered = true, want false when delivery fails")
	}
}

func TestProcessAlertTriggered(t *testing.T) {
	f := newFixture(t, "http://localhost:1")
	f.alerts.triggered = true

	outcome, err := f.sys.Process(context.Background(), pipeline.Submission{
		Kind: extraction.KindText,
		Text: englishBody,
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if !outcome.AlertTriggered {
		t.Error("AlertTriggered = false, want true")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"extraction", pipeline.ErrExtraction, http.StatusUnprocessableEntity},
		{"persistence", pipeline.ErrPersistence, http.StatusInternalServerError},
		{"invalid submission", pipeline.ErrInvalidSubmission, http.StatusBadRequest},
		{"unknown", errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pipeline.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
