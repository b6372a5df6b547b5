package alerts

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/sentinel-news/sentinel/pkg/query"
	"github.com/sentinel-news/sentinel/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "alert_history", "h").
	Project("id", "ID").
	Project("article_id", "ArticleID").
	Project("alert_type", "AlertType").
	Project("recipient", "Recipient").
	Project("subject", "Subject").
	Project("message", "Message").
	Project("status", "Status").
	Project("error_message", "ErrorMessage").
	Project("sent_at", "SentAt")

var defaultSort = query.SortField{
	Field:      "SentAt",
	Descending: true,
}

// Filters contains optional filtering criteria for alert history queries.
// Nil fields are ignored; all fields use exact matching.
type Filters struct {
	ArticleID *uuid.UUID `json:"article_id,omitempty"`
	AlertType *string    `json:"alert_type,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Recipient *string    `json:"recipient,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ArticleID", f.ArticleID).
		WhereEquals("AlertType", f.AlertType).
		WhereEquals("Status", f.Status).
		WhereEquals("Recipient", f.Recipient)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if aid := values.Get("article_id"); aid != "" {
		if v, err := uuid.Parse(aid); err == nil {
			f.ArticleID = &v
		}
	}

	if at := values.Get("alert_type"); at != "" {
		f.AlertType = &at
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if rec := values.Get("recipient"); rec != "" {
		f.Recipient = &rec
	}

	return f
}

func scanRecord(s repository.Scanner) (AlertRecord, error) {
	var rec AlertRecord
	err := s.Scan(
		&rec.ID,
		&rec.ArticleID,
		&rec.AlertType,
		&rec.Recipient,
		&rec.Subject,
		&rec.Message,
		&rec.Status,
		&rec.ErrorMessage,
		&rec.SentAt,
	)
	return rec, err
}
