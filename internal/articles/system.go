package articles

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/sentinel-news/sentinel/pkg/pagination"
)

// System defines the public contract for article domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Article], error)

	Find(ctx context.Context, id uuid.UUID) (*Article, error)
	Create(ctx context.Context, cmd CreateCommand) (*Article, error)
	RecordAlertSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	Source(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error)
	Analytics(ctx context.Context, days int) (*Analytics, error)
}
