package api

import (
	"fmt"

	"github.com/sentinel-news/sentinel/internal/alerts"
	"github.com/sentinel-news/sentinel/internal/articles"
	"github.com/sentinel-news/sentinel/internal/classify"
	"github.com/sentinel-news/sentinel/internal/config"
	"github.com/sentinel-news/sentinel/internal/extraction"
	"github.com/sentinel-news/sentinel/internal/feeds"
	"github.com/sentinel-news/sentinel/internal/language"
	"github.com/sentinel-news/sentinel/internal/llm"
	"github.com/sentinel-news/sentinel/internal/pipeline"
	"github.com/sentinel-news/sentinel/internal/translation"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Articles articles.System
	Alerts   alerts.System
	Pipeline pipeline.System
	Submit   *pipeline.Handler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()

	articleSys := articles.New(db, runtime.Storage, runtime.Logger, runtime.Pagination)

	var chat llm.ChatClient
	if cfg.Translation.FallbackAPIKey != "" {
		chat = llm.NewClient(
			cfg.Translation.FallbackEndpoint,
			cfg.Translation.FallbackModel,
			cfg.Translation.FallbackAPIKey,
			cfg.Translation.TimeoutDuration(),
		)
	}

	var mailer alerts.Mailer
	if cfg.Alerts.Enabled {
		m, err := alerts.NewMailer(&cfg.Alerts)
		if err != nil {
			return nil, fmt.Errorf("alert mailer init failed: %w", err)
		}
		mailer = m
	}

	alertSys := alerts.New(
		db,
		&cfg.Alerts,
		mailer,
		chat,
		articleSys,
		runtime.Logger,
		runtime.Pagination,
	)

	gateway := extraction.NewGateway(
		extraction.NewScraper(&cfg.Scraper, runtime.Logger),
		extraction.NewOCRClient(&cfg.OCR),
	)

	translator := translation.NewChain(
		translation.NewPrimaryClient(cfg.Translation.PrimaryEndpoint, cfg.Translation.TimeoutDuration()),
		chat,
		&cfg.Translation,
		cfg.Language.DefaultCode,
		runtime.Logger,
	)

	pipelineSys := pipeline.New(
		gateway,
		language.NewResolver(&cfg.Language),
		translator,
		classify.NewAdapter(&cfg.Classifier, runtime.Logger),
		articleSys,
		alertSys,
		runtime.Logger,
	)

	submit := pipeline.NewHandler(
		pipelineSys,
		runtime.Storage,
		feeds.NewFetcher(),
		cfg.Feeds,
		cfg.API.MaxUploadSizeBytes(),
		runtime.Logger,
	)

	return &Domain{
		Articles: articleSys,
		Alerts:   alertSys,
		Pipeline: pipelineSys,
		Submit:   submit,
	}, nil
}
