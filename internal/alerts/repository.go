package alerts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sentinel-news/sentinel/internal/articles"
	"github.com/sentinel-news/sentinel/internal/config"
	"github.com/sentinel-news/sentinel/internal/llm"
	"github.com/sentinel-news/sentinel/pkg/pagination"
	"github.com/sentinel-news/sentinel/pkg/query"
	"github.com/sentinel-news/sentinel/pkg/repository"
)

// history records alert delivery outcomes to the audit log.
type history interface {
	append(ctx context.Context, cmd AppendCommand) (*AlertRecord, error)
}

type system struct {
	db         *sql.DB
	cfg        *config.AlertsConfig
	mailer     Mailer
	summarizer llm.ChatClient
	articles   articles.System
	history    history
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the alert system. The summarizer may be nil, in which case
// alert bodies carry a stock summary line.
func New(
	db *sql.DB,
	cfg *config.AlertsConfig,
	mailer Mailer,
	summarizer llm.ChatClient,
	articleSys articles.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &system{
		db:         db,
		cfg:        cfg,
		mailer:     mailer,
		summarizer: summarizer,
		articles:   articleSys,
		history:    &dbHistory{db: db},
		logger:     logger.With("system", "alerts"),
		pagination: pagination,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *system) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[AlertRecord], error) {
	page.Normalize(s.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Subject", "Recipient")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count alert records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query alert records: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

// dbHistory is the Postgres-backed audit log.
type dbHistory struct {
	db *sql.DB
}

func (h *dbHistory) append(ctx context.Context, cmd AppendCommand) (*AlertRecord, error) {
	q := `
		INSERT INTO alert_history(id, article_id, alert_type, recipient, subject, message, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, article_id, alert_type, recipient, subject, message, status, error_message, sent_at`

	insertArgs := []any{
		uuid.New(),
		cmd.ArticleID,
		cmd.AlertType,
		cmd.Recipient,
		cmd.Subject,
		cmd.Message,
		cmd.Status,
		cmd.ErrorMessage,
	}

	rec, err := repository.WithTx(ctx, h.db, func(tx *sql.Tx) (AlertRecord, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanRecord)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &rec, nil
}
