package alerts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sentinel-news/sentinel/internal/articles"
	"github.com/sentinel-news/sentinel/internal/config"
	"github.com/sentinel-news/sentinel/pkg/pagination"
)

type stubHistory struct {
	records []AppendCommand
	err     error
}

func (s *stubHistory) append(_ context.Context, cmd AppendCommand) (*AlertRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.records = append(s.records, cmd)
	return &AlertRecord{ID: uuid.New(), ArticleID: cmd.ArticleID, Status: cmd.Status}, nil
}

// stubMailer fails delivery for recipients listed in failFor.
type stubMailer struct {
	failFor map[string]error
	sent    []string
}

func (s *stubMailer) Send(_ context.Context, recipient, _, _ string) error {
	if err, ok := s.failFor[recipient]; ok {
		return err
	}
	s.sent = append(s.sent, recipient)
	return nil
}

type stubArticleSystem struct {
	alerted []uuid.UUID
}

func (s *stubArticleSystem) Handler() *articles.Handler { return nil }

func (s *stubArticleSystem) List(context.Context, pagination.PageRequest, articles.Filters) (*pagination.PageResult[articles.Article], error) {
	return nil, errors.New("not implemented")
}

func (s *stubArticleSystem) Find(context.Context, uuid.UUID) (*articles.Article, error) {
	return nil, articles.ErrNotFound
}

func (s *stubArticleSystem) Create(context.Context, articles.CreateCommand) (*articles.Article, error) {
	return nil, errors.New("not implemented")
}

func (s *stubArticleSystem) RecordAlertSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	s.alerted = append(s.alerted, id)
	return nil
}

func (s *stubArticleSystem) Delete(context.Context, uuid.UUID) error { return nil }

func (s *stubArticleSystem) Source(context.Context, uuid.UUID) (io.ReadCloser, string, error) {
	return nil, "", articles.ErrNoSource
}

func (s *stubArticleSystem) Analytics(context.Context, int) (*articles.Analytics, error) {
	return nil, errors.New("not implemented")
}

func deliverySystem(mailer Mailer, recipients ...string) (*system, *stubHistory, *stubArticleSystem) {
	hist := &stubHistory{}
	arts := &stubArticleSystem{}

	sys := &system{
		cfg: &config.AlertsConfig{
			Enabled:        true,
			Recipients:     recipients,
			NegativeLabels: []string{"negative", "neg"},
		},
		mailer:   mailer,
		articles: arts,
		history:  hist,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	return sys, hist, arts
}

type stubSummarizer struct {
	summary string
	err     error
}

func (s *stubSummarizer) Complete(context.Context, string, string) (string, error) {
	return s.summary, s.err
}

func testSystem(summarizer *stubSummarizer) *system {
	sys := &system{
		cfg:    &config.AlertsConfig{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if summarizer != nil {
		sys.summarizer = summarizer
	}
	return sys
}

func negativeArticle() *articles.Article {
	sourceURL := "https://news.example.com/bridge-collapse"
	return &articles.Article{
		ID:               uuid.New(),
		Title:            `Bridge Collapse <Investigation> Ordered`,
		Content:          "A pedestrian bridge collapsed during evening rush hour, injuring twelve commuters.",
		DetectedLanguage: "en",
		Sentiment:        "negative",
		SentimentScore:   0.94,
		Department:       "infrastructure",
		SourceURL:        &sourceURL,
		CreatedAt:        time.Date(2026, time.August, 20, 18, 45, 0, 0, time.UTC),
	}
}

func TestEvaluateSkipsNonTriggering(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		label   string
	}{
		{"alerts disabled", false, "negative"},
		{"neutral sentiment", true, "neutral"},
		{"positive sentiment", true, "positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := testSystem(nil)
			sys.cfg.Enabled = tt.enabled
			sys.cfg.NegativeLabels = []string{"negative", "neg"}

			article := negativeArticle()
			article.Sentiment = tt.label

			triggered, err := sys.Evaluate(context.Background(), article)
			if err != nil {
				t.Fatalf("Evaluate() error: %v", err)
			}
			if triggered {
				t.Error("Evaluate() = true, want false")
			}
		})
	}
}

func TestEvaluateDeliverySuccess(t *testing.T) {
	mailer := &stubMailer{}
	sys, hist, arts := deliverySystem(mailer, "ops@example.com")
	article := negativeArticle()

	triggered, err := sys.Evaluate(context.Background(), article)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !triggered {
		t.Fatal("Evaluate() = false, want true")
	}

	if len(hist.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(hist.records))
	}

	rec := hist.records[0]
	if rec.Status != StatusSent {
		t.Errorf("Status = %q, want %q", rec.Status, StatusSent)
	}
	if rec.Recipient != "ops@example.com" {
		t.Errorf("Recipient = %q", rec.Recipient)
	}
	if rec.AlertType != TypeEmail {
		t.Errorf("AlertType = %q, want %q", rec.AlertType, TypeEmail)
	}
	if !strings.HasPrefix(rec.Subject, "Negative News Alert: ") {
		t.Errorf("Subject = %q", rec.Subject)
	}
	if rec.ErrorMessage != nil {
		t.Errorf("ErrorMessage = %q, want nil", *rec.ErrorMessage)
	}

	if len(arts.alerted) != 1 || arts.alerted[0] != article.ID {
		t.Errorf("RecordAlertSent calls = %v, want [%s]", arts.alerted, article.ID)
	}
	if !article.AlertTriggered || article.AlertSentAt == nil {
		t.Errorf("article alert fields = %v/%v, want true/non-nil",
			article.AlertTriggered, article.AlertSentAt)
	}
}

func TestEvaluateDeliveryFailure(t *testing.T) {
	mailer := &stubMailer{failFor: map[string]error{
		"ops@example.com": errors.New("smtp connect refused"),
	}}
	sys, hist, arts := deliverySystem(mailer, "ops@example.com")
	article := negativeArticle()

	triggered, err := sys.Evaluate(context.Background(), article)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !triggered {
		t.Fatal("Evaluate() = false, want true")
	}

	if len(hist.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(hist.records))
	}

	rec := hist.records[0]
	if rec.Status != StatusFailed {
		t.Errorf("Status = %q, want %q", rec.Status, StatusFailed)
	}
	if rec.ErrorMessage == nil || !strings.Contains(*rec.ErrorMessage, "smtp connect refused") {
		t.Errorf("ErrorMessage = %v, want delivery reason", rec.ErrorMessage)
	}

	if len(arts.alerted) != 0 {
		t.Errorf("RecordAlertSent calls = %v, want none on failed delivery", arts.alerted)
	}
	if article.AlertTriggered || article.AlertSentAt != nil {
		t.Errorf("article alert fields = %v/%v, want defaults on failed delivery",
			article.AlertTriggered, article.AlertSentAt)
	}
}

func TestEvaluatePartialDelivery(t *testing.T) {
	mailer := &stubMailer{failFor: map[string]error{
		"first@example.com": errors.New("mailbox full"),
	}}
	sys, hist, arts := deliverySystem(mailer, "first@example.com", "second@example.com")
	article := negativeArticle()

	triggered, err := sys.Evaluate(context.Background(), article)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !triggered {
		t.Fatal("Evaluate() = false, want true")
	}

	if len(hist.records) != 2 {
		t.Fatalf("audit records = %d, want 2", len(hist.records))
	}
	if hist.records[0].Status != StatusFailed || hist.records[1].Status != StatusSent {
		t.Errorf("statuses = %q/%q, want failed then sent",
			hist.records[0].Status, hist.records[1].Status)
	}

	// One successful recipient is enough to mark the article alerted.
	if len(arts.alerted) != 1 {
		t.Errorf("RecordAlertSent calls = %d, want 1", len(arts.alerted))
	}
	if !article.AlertTriggered {
		t.Error("AlertTriggered = false, want true")
	}
}

func TestEvaluateSubjectTruncation(t *testing.T) {
	mailer := &stubMailer{}
	sys, hist, _ := deliverySystem(mailer, "ops@example.com")

	article := negativeArticle()
	article.Title = strings.Repeat("x", 150)

	if _, err := sys.Evaluate(context.Background(), article); err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	want := "Negative News Alert: " + strings.Repeat("x", 100)
	if hist.records[0].Subject != want {
		t.Errorf("Subject = %q, want title truncated to 100 runes", hist.records[0].Subject)
	}
}

func TestEvaluateAuditFailureSurfaces(t *testing.T) {
	mailer := &stubMailer{}
	sys, hist, _ := deliverySystem(mailer, "ops@example.com")
	hist.err = errors.New("database unavailable")

	triggered, err := sys.Evaluate(context.Background(), negativeArticle())
	if err == nil {
		t.Fatal("expected error when the audit append fails")
	}
	if !triggered {
		t.Error("Evaluate() = false, want true even when auditing fails")
	}
}

func TestRenderBody(t *testing.T) {
	sys := testSystem(&stubSummarizer{summary: "The article reports injuries caused by failed public infrastructure."})
	article := negativeArticle()

	body := sys.renderBody(context.Background(), article)

	if !strings.Contains(body, "Bridge Collapse &lt;Investigation&gt; Ordered") {
		t.Error("title not HTML-escaped")
	}
	if !strings.Contains(body, "negative (0.94)") {
		t.Errorf("sentiment line missing: %s", body)
	}
	if !strings.Contains(body, "<strong>Language:</strong> en") {
		t.Error("language line missing from body")
	}
	if !strings.Contains(body, "failed public infrastructure") {
		t.Error("summary missing from body")
	}
	if !strings.Contains(body, "pedestrian bridge collapsed") {
		t.Error("content preview missing from body")
	}
	if !strings.Contains(body, `href="https://news.example.com/bridge-collapse"`) {
		t.Error("source link missing from body")
	}
}

func TestRenderBodyPreviewUsesTranslation(t *testing.T) {
	sys := testSystem(nil)
	article := negativeArticle()
	translated := "Translated body text for preview."
	article.TranslatedContent = &translated

	body := sys.renderBody(context.Background(), article)

	if !strings.Contains(body, "Translated body text for preview.") {
		t.Error("preview should use translated content when present")
	}
	if strings.Contains(body, "pedestrian bridge collapsed") {
		t.Error("preview should not use the original content when a translation exists")
	}
}

func TestSummarizeFallsBack(t *testing.T) {
	tests := []struct {
		name       string
		summarizer *stubSummarizer
	}{
		{"no summarizer configured", nil},
		{"summarizer error", &stubSummarizer{err: errors.New("rate limited")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := testSystem(tt.summarizer)

			if got := sys.summarize(context.Background(), negativeArticle()); got != fallbackSummary {
				t.Errorf("summarize() = %q, want fallback", got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"under limit", "short", 10, "short"},
		{"at limit", "exact", 5, "exact"},
		{"over limit", "overflowing", 5, "overf"},
		{"multibyte safe", "नमस्ते दुनिया", 6, "नमस्ते"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.limit); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
		})
	}
}
