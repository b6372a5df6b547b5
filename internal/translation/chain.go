package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sentinel-news/sentinel/internal/config"
	"github.com/sentinel-news/sentinel/internal/llm"
)

// Outcome sources.
const (
	SourceSkipped     = "skipped"
	SourcePrimary     = "primary"
	SourceFallback    = "fallback"
	SourcePassthrough = "passthrough"
)

const fallbackPrompt = "You are a translator. Translate the user's text to English. " +
	"Respond with the translation only, no commentary."

// Outcome is the result of running content through the translation chain.
// Translated is nil when translation was skipped or passed through.
// Degraded carries the recorded failure on passthrough.
type Outcome struct {
	Translated *string
	Source     string
	Degraded   error
}

// Chain runs content through the primary translator with a chat fallback.
type Chain struct {
	primary    *PrimaryClient
	fallback   llm.ChatClient
	cfg        *config.TranslationConfig
	targetCode string
	logger     *slog.Logger
}

// NewChain creates a translation chain. The fallback may be nil when no
// fallback API key is configured.
func NewChain(
	primary *PrimaryClient,
	fallback llm.ChatClient,
	cfg *config.TranslationConfig,
	targetCode string,
	logger *slog.Logger,
) *Chain {
	return &Chain{
		primary:    primary,
		fallback:   fallback,
		cfg:        cfg,
		targetCode: targetCode,
		logger:     logger.With("system", "translation"),
	}
}

// Translate converts text from the detected language to the target language.
// Content already in the target language is skipped. Each tier caps the input
// length independently. When both tiers fail, the outcome passes the original
// content through with the failures recorded.
func (c *Chain) Translate(ctx context.Context, text, detectedCode string) Outcome {
	if detectedCode == c.targetCode {
		return Outcome{Source: SourceSkipped}
	}

	translated, primaryErr := c.primary.Translate(
		ctx,
		truncate(text, c.cfg.PrimaryCap),
		detectedCode,
		c.targetCode,
	)
	if primaryErr == nil {
		return Outcome{Translated: &translated, Source: SourcePrimary}
	}
	c.logger.Warn("primary translation failed", "language", detectedCode, "error", primaryErr)

	fallbackErr := errors.New("no fallback translator configured")
	if c.fallback != nil {
		translated, fallbackErr = c.fallback.Complete(
			ctx,
			fallbackPrompt,
			truncate(text, c.cfg.FallbackCap),
		)
		if fallbackErr == nil {
			return Outcome{Translated: &translated, Source: SourceFallback}
		}
		c.logger.Warn("fallback translation failed", "language", detectedCode, "error", fallbackErr)
	}

	return Outcome{
		Source: SourcePassthrough,
		Degraded: fmt.Errorf(
			"translation passthrough: primary: %w; fallback: %w",
			primaryErr, fallbackErr,
		),
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
