// Package pipeline orchestrates article processing as a task graph:
// extract, detect language, translate, classify, persist, and alert.
// Extraction and persistence failures are terminal; every other stage
// degrades and the article is persisted with whatever was resolved.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bpradana/weave"

	"github.com/sentinel-news/sentinel/internal/alerts"
	"github.com/sentinel-news/sentinel/internal/articles"
	"github.com/sentinel-news/sentinel/internal/classify"
	"github.com/sentinel-news/sentinel/internal/extraction"
	"github.com/sentinel-news/sentinel/internal/language"
	"github.com/sentinel-news/sentinel/internal/translation"
)

// System defines the public contract for the processing pipeline.
type System interface {
	Process(ctx context.Context, sub Submission) (*Outcome, error)
}

type system struct {
	gateway    extraction.Gateway
	resolver   *language.Resolver
	translator *translation.Chain
	classifier *classify.Adapter
	articles   articles.System
	alerts     alerts.System
	logger     *slog.Logger
}

// New creates the pipeline system from its stage collaborators.
func New(
	gateway extraction.Gateway,
	resolver *language.Resolver,
	translator *translation.Chain,
	classifier *classify.Adapter,
	articleSys articles.System,
	alertSys alerts.System,
	logger *slog.Logger,
) System {
	return &system{
		gateway:    gateway,
		resolver:   resolver,
		translator: translator,
		classifier: classifier,
		articles:   articleSys,
		alerts:     alertSys,
		logger:     logger.With("system", "pipeline"),
	}
}

// Process runs a submission through the full task graph and returns the
// persisted article with its stage outcomes.
func (s *system) Process(ctx context.Context, sub Submission) (*Outcome, error) {
	g := weave.NewGraph()

	extract, err := weave.AddTask(g, "extract",
		func(ctx context.Context, _ weave.DependencyResolver) (*extraction.Content, error) {
			content, err := s.gateway.Extract(ctx, extraction.Request{
				Kind:         sub.Kind,
				URL:          sub.URL,
				Title:        sub.Title,
				Text:         sub.Text,
				Data:         sub.Data,
				Filename:     sub.Filename,
				LanguageHint: sub.LanguageHint,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
			}
			if strings.TrimSpace(content.Text) == "" {
				return nil, fmt.Errorf("%w: no content extracted", ErrExtraction)
			}
			return content, nil
		})
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	detect, err := weave.AddTask(g, "detect",
		func(_ context.Context, deps weave.DependencyResolver) (string, error) {
			content, err := extract.Value(deps)
			if err != nil {
				return "", err
			}
			return s.resolver.Resolve(content.Text), nil
		},
		weave.DependsOn(extract))
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	translate, err := weave.AddTask(g, "translate",
		func(ctx context.Context, deps weave.DependencyResolver) (translation.Outcome, error) {
			content, err := extract.Value(deps)
			if err != nil {
				return translation.Outcome{}, err
			}
			code, err := detect.Value(deps)
			if err != nil {
				return translation.Outcome{}, err
			}

			outcome := s.translator.Translate(ctx, content.Text, code)
			if outcome.Degraded != nil {
				s.logger.Warn("translation degraded", "language", code, "error", outcome.Degraded)
			}
			return outcome, nil
		},
		weave.DependsOn(extract, detect))
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	analyze, err := weave.AddTask(g, "analyze",
		func(ctx context.Context, deps weave.DependencyResolver) (classify.Result, error) {
			content, err := extract.Value(deps)
			if err != nil {
				return classify.Result{}, err
			}
			translated, err := translate.Value(deps)
			if err != nil {
				return classify.Result{}, err
			}

			text := content.Text
			if translated.Translated != nil {
				text = *translated.Translated
			}
			return s.classifier.Analyze(ctx, text), nil
		},
		weave.DependsOn(extract, translate))
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	persist, err := weave.AddTask(g, "persist",
		func(ctx context.Context, deps weave.DependencyResolver) (*articles.Article, error) {
			content, err := extract.Value(deps)
			if err != nil {
				return nil, err
			}
			code, err := detect.Value(deps)
			if err != nil {
				return nil, err
			}
			translated, err := translate.Value(deps)
			if err != nil {
				return nil, err
			}
			result, err := analyze.Value(deps)
			if err != nil {
				return nil, err
			}

			article, err := s.articles.Create(ctx, buildCreateCommand(sub, content, code, translated, result))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
			}
			return article, nil
		},
		weave.DependsOn(extract, detect, translate, analyze))
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	alert, err := weave.AddTask(g, "alert",
		func(ctx context.Context, deps weave.DependencyResolver) (bool, error) {
			article, err := persist.Value(deps)
			if err != nil {
				return false, err
			}

			triggered, err := s.alerts.Evaluate(ctx, article)
			if err != nil {
				// delivery bookkeeping failures never unwind a persisted article
				s.logger.Warn("alert evaluation degraded", "article_id", article.ID, "error", err)
			}
			return triggered, nil
		},
		weave.DependsOn(persist))
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	results, metrics, err := g.Run(ctx)
	if err != nil {
		return nil, err
	}

	article, err := persist.Value(results)
	if err != nil {
		return nil, err
	}
	code, err := detect.Value(results)
	if err != nil {
		return nil, err
	}
	translated, err := translate.Value(results)
	if err != nil {
		return nil, err
	}
	triggered, err := alert.Value(results)
	if err != nil {
		return nil, err
	}

	s.logger.Info("submission processed",
		"article_id", article.ID,
		"source_type", article.SourceType,
		"language", code,
		"translation", translated.Source,
		"alert_triggered", triggered,
		"duration", metrics.Duration,
	)

	return &Outcome{
		Article:           article,
		DetectedLanguage:  code,
		TranslationSource: translated.Source,
		AlertTriggered:    triggered,
	}, nil
}

func buildCreateCommand(
	sub Submission,
	content *extraction.Content,
	code string,
	translated translation.Outcome,
	result classify.Result,
) articles.CreateCommand {
	cmd := articles.CreateCommand{
		SourceType:        string(sub.Kind),
		SourceStorageKey:  sub.SourceStorageKey,
		Title:             content.Title,
		Content:           content.Text,
		OriginalLanguage:  code,
		DetectedLanguage:  code,
		TranslatedContent: translated.Translated,
		Sentiment:         result.Sentiment,
		SentimentScore:    result.SentimentScore,
		Department:        result.Department,
		DepartmentScore:   result.DepartmentScore,
		PublishedDate:     content.PublishedDate,
		Authors:           content.Authors,
		PageCount:         sub.PageCount,
	}

	if sub.URL != "" {
		cmd.SourceURL = &sub.URL
	}
	if sub.Filename != "" {
		cmd.SourceFileName = &sub.Filename
	}
	if cmd.PublishedDate == nil {
		cmd.PublishedDate = sub.PublishedDate
	}

	return cmd
}
