package alerts

import (
	"context"

	"github.com/sentinel-news/sentinel/internal/articles"
	"github.com/sentinel-news/sentinel/pkg/pagination"
)

// System defines the public contract for alert domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[AlertRecord], error)

	// Evaluate checks whether the article's sentiment triggers an alert,
	// delivers notifications to all configured recipients, and records the
	// outcome. Returns true when an alert was triggered.
	Evaluate(ctx context.Context, article *articles.Article) (bool, error)
}
