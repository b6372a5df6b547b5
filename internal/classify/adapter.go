package classify

import (
	"context"
	"log/slog"

	"github.com/sentinel-news/sentinel/internal/config"
)

// Unknown is assigned per axis when its classifier fails.
const Unknown = "unknown"

// Result carries both classification axes for an article.
type Result struct {
	Sentiment       string
	SentimentScore  float64
	Department      string
	DepartmentScore float64
}

// Adapter runs sentiment and department classification over article text.
// Each axis degrades independently: a failed classifier yields
// Unknown with a zero score instead of failing the analysis.
type Adapter struct {
	sentiment  *Client
	department *Client
	truncateAt int
	logger     *slog.Logger
}

// NewAdapter creates an Adapter from the classifier configuration.
func NewAdapter(cfg *config.ClassifierConfig, logger *slog.Logger) *Adapter {
	timeout := cfg.TimeoutDuration()

	return &Adapter{
		sentiment:  NewClient(cfg.SentimentEndpoint, cfg.SentimentLabels, timeout),
		department: NewClient(cfg.DepartmentEndpoint, cfg.DepartmentLabels, timeout),
		truncateAt: cfg.TruncateLength,
		logger:     logger.With("system", "classify"),
	}
}

// Analyze classifies the text on both axes.
func (a *Adapter) Analyze(ctx context.Context, text string) Result {
	capped := truncate(text, a.truncateAt)

	result := Result{
		Sentiment:  Unknown,
		Department: Unknown,
	}

	if label, score, err := a.sentiment.Classify(ctx, capped); err != nil {
		a.logger.Warn("sentiment classification degraded", "error", err)
	} else {
		result.Sentiment = label
		result.SentimentScore = score
	}

	if label, score, err := a.department.Classify(ctx, capped); err != nil {
		a.logger.Warn("department classification degraded", "error", err)
	} else {
		result.Department = label
		result.DepartmentScore = score
	}

	return result
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
