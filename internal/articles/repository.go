package articles

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sentinel-news/sentinel/pkg/pagination"
	"github.com/sentinel-news/sentinel/pkg/query"
	"github.com/sentinel-news/sentinel/pkg/repository"
	"github.com/sentinel-news/sentinel/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an article repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "articles"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Article], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Content")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanArticle)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Article, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArticle)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Article, error) {
	authors, err := marshalAuthors(cmd.Authors)
	if err != nil {
		return nil, fmt.Errorf("marshal authors: %w", err)
	}

	q := `
		INSERT INTO articles(
			id, source_type, source_url, source_file_name, source_storage_key,
			title, content, original_language, detected_language, translated_content,
			sentiment, sentiment_score, department, department_score,
			published_date, authors, page_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, source_type, source_url, source_file_name, source_storage_key,
			title, content, original_language, detected_language, translated_content,
			sentiment, sentiment_score, department, department_score,
			published_date, authors, page_count, alert_triggered, alert_sent_at, created_at`

	insertArgs := []any{
		uuid.New(),
		cmd.SourceType,
		cmd.SourceURL,
		cmd.SourceFileName,
		cmd.SourceStorageKey,
		cmd.Title,
		cmd.Content,
		cmd.OriginalLanguage,
		cmd.DetectedLanguage,
		cmd.TranslatedContent,
		cmd.Sentiment,
		cmd.SentimentScore,
		cmd.Department,
		cmd.DepartmentScore,
		cmd.PublishedDate,
		authors,
		cmd.PageCount,
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Article, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanArticle)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("article created", "id", a.ID, "source_type", a.SourceType)
	return &a, nil
}

func (r *repo) RecordAlertSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE articles SET alert_triggered = TRUE, alert_sent_at = $2 WHERE id = $1",
			id, sentAt,
		)
		return struct{}{}, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("alert recorded", "id", id)
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM articles WHERE id = $1",
			id,
		)
		return struct{}{}, err
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if a.SourceStorageKey != nil {
		if delErr := r.storage.Delete(ctx, *a.SourceStorageKey); delErr != nil {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", *a.SourceStorageKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("article deleted", "id", id)
	return nil
}

// Source returns the archived source file for an article along with its
// original filename. Returns ErrNoSource when the article was not ingested
// from a stored file.
func (r *repo) Source(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if a.SourceStorageKey == nil || *a.SourceStorageKey == "" {
		return nil, "", ErrNoSource
	}

	filename := "source"
	if a.SourceFileName != nil && *a.SourceFileName != "" {
		filename = *a.SourceFileName
	}

	return fetchSource(ctx, r.storage, *a.SourceStorageKey, filename)
}

// fetchSource streams an archived source blob. A recorded key whose blob
// has since been removed reports ErrNoSource rather than a download error.
func fetchSource(ctx context.Context, store storage.System, key, filename string) (io.ReadCloser, string, error) {
	exists, err := store.Exists(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("check source %s: %w", key, err)
	}
	if !exists {
		return nil, "", ErrNoSource
	}

	reader, err := store.Download(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("download source %s: %w", key, err)
	}

	return reader, filename, nil
}

func (r *repo) Analytics(ctx context.Context, days int) (*Analytics, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	result := &Analytics{
		Days:             days,
		SentimentCounts:  make(map[string]int),
		DepartmentCounts: make(map[string]int),
		LanguageCounts:   make(map[string]int),
	}

	err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE alert_triggered)
		 FROM articles WHERE created_at >= $1`,
		cutoff,
	).Scan(&result.TotalArticles, &result.AlertsTriggered)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	if err := r.groupCounts(
		ctx,
		"SELECT sentiment, COUNT(*) FROM articles WHERE created_at >= $1 GROUP BY sentiment",
		cutoff,
		result.SentimentCounts,
	); err != nil {
		return nil, fmt.Errorf("sentiment counts: %w", err)
	}

	if err := r.groupCounts(
		ctx,
		"SELECT department, COUNT(*) FROM articles WHERE created_at >= $1 GROUP BY department",
		cutoff,
		result.DepartmentCounts,
	); err != nil {
		return nil, fmt.Errorf("department counts: %w", err)
	}

	if err := r.groupCounts(
		ctx,
		"SELECT detected_language, COUNT(*) FROM articles WHERE created_at >= $1 GROUP BY detected_language",
		cutoff,
		result.LanguageCounts,
	); err != nil {
		return nil, fmt.Errorf("language counts: %w", err)
	}

	return result, nil
}

func (r *repo) groupCounts(
	ctx context.Context,
	q string,
	cutoff time.Time,
	counts map[string]int,
) error {
	rows, err := r.db.QueryContext(ctx, q, cutoff)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			label string
			count int
		)
		if err := rows.Scan(&label, &count); err != nil {
			return err
		}
		counts[label] = count
	}

	return rows.Err()
}
