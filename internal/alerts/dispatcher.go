package alerts

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sentinel-news/sentinel/internal/articles"
)

const (
	subjectPrefix = "Negative News Alert: "

	subjectTitleLimit = 100
	previewLimit      = 300

	fallbackSummary = "Automated summary unavailable; review the article content below."

	summarizerPrompt = "You review news articles flagged as negative toward government departments. " +
		"In two sentences, explain what makes the article negative."
)

func (s *system) Evaluate(ctx context.Context, article *articles.Article) (bool, error) {
	if !s.cfg.Enabled || !s.cfg.IsNegative(article.Sentiment) {
		return false, nil
	}

	subject := subjectPrefix + truncate(article.Title, subjectTitleLimit)
	message := "Sentiment: " + article.Sentiment
	body := s.renderBody(ctx, article)

	sent := false
	for _, recipient := range s.cfg.Recipients {
		cmd := AppendCommand{
			ArticleID: article.ID,
			AlertType: TypeEmail,
			Recipient: recipient,
			Subject:   subject,
			Message:   message,
		}

		if err := s.mailer.Send(ctx, recipient, subject, body); err != nil {
			s.logger.Warn("alert delivery failed",
				"article_id", article.ID,
				"recipient", recipient,
				"error", err,
			)
			msg := err.Error()
			cmd.Status = StatusFailed
			cmd.ErrorMessage = &msg
		} else {
			cmd.Status = StatusSent
			sent = true
		}

		if _, err := s.history.append(ctx, cmd); err != nil {
			return true, fmt.Errorf("record alert delivery: %w", err)
		}
	}

	if sent {
		sentAt := time.Now()
		if err := s.articles.RecordAlertSent(ctx, article.ID, sentAt); err != nil {
			return true, fmt.Errorf("mark article alerted: %w", err)
		}
		article.AlertTriggered = true
		article.AlertSentAt = &sentAt
	}

	s.logger.Info("alert evaluated",
		"article_id", article.ID,
		"sentiment", article.Sentiment,
		"delivered", sent,
	)

	return true, nil
}

func (s *system) renderBody(ctx context.Context, article *articles.Article) string {
	summary := s.summarize(ctx, article)
	preview := truncate(article.AnalysisText(), previewLimit)

	var b strings.Builder
	b.WriteString("<h2>" + html.EscapeString(article.Title) + "</h2>")
	b.WriteString(fmt.Sprintf(
		"<p><strong>Sentiment:</strong> %s (%.2f)<br>",
		html.EscapeString(article.Sentiment), article.SentimentScore,
	))
	b.WriteString(fmt.Sprintf(
		"<strong>Department:</strong> %s (%.2f)<br>",
		html.EscapeString(article.Department), article.DepartmentScore,
	))
	b.WriteString(fmt.Sprintf(
		"<strong>Language:</strong> %s<br><strong>Detected:</strong> %s</p>",
		html.EscapeString(article.DetectedLanguage),
		article.CreatedAt.Format(time.RFC1123),
	))
	b.WriteString("<p><strong>Why flagged:</strong> " + html.EscapeString(summary) + "</p>")
	b.WriteString("<blockquote>" + html.EscapeString(preview) + "</blockquote>")

	if article.SourceURL != nil && *article.SourceURL != "" {
		u := html.EscapeString(*article.SourceURL)
		b.WriteString(fmt.Sprintf(`<p><a href="%s">%s</a></p>`, u, u))
	}

	return b.String()
}

func (s *system) summarize(ctx context.Context, article *articles.Article) string {
	if s.summarizer == nil {
		return fallbackSummary
	}

	user := fmt.Sprintf(
		"Title: %s\n\n%s",
		article.Title,
		truncate(article.AnalysisText(), previewLimit*4),
	)

	summary, err := s.summarizer.Complete(ctx, summarizerPrompt, user)
	if err != nil {
		s.logger.Warn("alert summary degraded", "article_id", article.ID, "error", err)
		return fallbackSummary
	}

	return summary
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
